package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	promreg "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/ncecere/voice_translator/internal/config"
)

const (
	serviceName = "voice-translator"
	namespace   = "voice_translator"
)

type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *metric.MeterProvider
	promExporter   *prometheus.Exporter
	promHandler    http.Handler
	shutdownFuncs  []func(context.Context) error

	httpRequestCounter  *promreg.CounterVec
	httpRequestLatency  *promreg.HistogramVec
	providerLatencyHist *promreg.HistogramVec
	translationAttempts *promreg.CounterVec
	speechSynthesis     *promreg.CounterVec
	audioSwept          promreg.Counter
}

// Setup wires tracing and metrics. It returns nil when both are disabled;
// every method on Provider is safe to call on a nil receiver.
func Setup(ctx context.Context, cfg config.ObservabilityConfig) (*Provider, error) {
	if !cfg.EnableOTLP && !cfg.EnableMetrics {
		return nil, nil
	}

	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	if cfg.EnableOTLP {
		endpoint := strings.TrimSpace(cfg.OTLPEndpoint)
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		opts := []otlptracegrpc.Option{}
		switch {
		case strings.HasPrefix(endpoint, "http://"):
			endpoint = strings.TrimPrefix(endpoint, "http://")
			opts = append(opts, otlptracegrpc.WithInsecure())
		case strings.HasPrefix(endpoint, "https://"):
			endpoint = strings.TrimPrefix(endpoint, "https://")
		default:
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))

		exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
		if err != nil {
			return nil, err
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		provider.tracerProvider = tp
		provider.shutdownFuncs = append(provider.shutdownFuncs, tp.Shutdown)
	}

	if cfg.EnableMetrics {
		if err := provider.setupMetrics(res); err != nil {
			return nil, err
		}
	}

	return provider, nil
}

func (p *Provider) setupMetrics(res *resource.Resource) error {
	registry := promreg.NewRegistry()
	promExporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return err
	}
	mp := metric.NewMeterProvider(
		metric.WithReader(promExporter),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	p.meterProvider = mp
	p.promExporter = promExporter
	p.promHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
	p.shutdownFuncs = append(p.shutdownFuncs, mp.Shutdown)

	latencyBuckets := []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10}
	p.httpRequestCounter = promreg.NewCounterVec(
		promreg.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	p.httpRequestLatency = promreg.NewHistogramVec(
		promreg.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   latencyBuckets,
		},
		[]string{"method", "route", "status"},
	)
	p.providerLatencyHist = promreg.NewHistogramVec(
		promreg.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of upstream translation and speech calls.",
			Buckets:   latencyBuckets,
		},
		[]string{"provider", "operation", "outcome"},
	)
	p.translationAttempts = promreg.NewCounterVec(
		promreg.CounterOpts{
			Namespace: namespace,
			Name:      "translation_attempts_total",
			Help:      "Translation attempts by outcome (success, transient, fatal).",
		},
		[]string{"provider", "outcome"},
	)
	p.speechSynthesis = promreg.NewCounterVec(
		promreg.CounterOpts{
			Namespace: namespace,
			Name:      "speech_synthesis_total",
			Help:      "Speech synthesis calls by outcome.",
		},
		[]string{"provider", "outcome"},
	)
	p.audioSwept = promreg.NewCounter(promreg.CounterOpts{
		Namespace: namespace,
		Name:      "audio_artifacts_swept_total",
		Help:      "Expired audio artifacts removed by the sweeper.",
	})

	for _, c := range []promreg.Collector{
		p.httpRequestCounter, p.httpRequestLatency, p.providerLatencyHist,
		p.translationAttempts, p.speechSynthesis, p.audioSwept,
	} {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) PrometheusHandler() http.Handler {
	if p == nil || p.promHandler == nil {
		return nil
	}
	return p.promHandler
}

func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) TracerProvider() *sdktrace.TracerProvider {
	if p == nil {
		return nil
	}
	return p.tracerProvider
}

func (p *Provider) RecordHTTPRequest(_ context.Context, method, route string, status int, duration time.Duration) {
	if p == nil {
		return
	}

	statusLabel := strconv.Itoa(status)

	if p.httpRequestCounter != nil {
		p.httpRequestCounter.WithLabelValues(method, route, statusLabel).Inc()
	}

	if p.httpRequestLatency != nil {
		p.httpRequestLatency.WithLabelValues(method, route, statusLabel).Observe(duration.Seconds())
	}
}

func (p *Provider) RecordProviderLatency(provider, operation, outcome string, duration time.Duration) {
	if p == nil || p.providerLatencyHist == nil {
		return
	}
	p.providerLatencyHist.WithLabelValues(provider, operation, outcome).Observe(duration.Seconds())
}

func (p *Provider) RecordTranslationAttempt(provider, outcome string) {
	if p == nil || p.translationAttempts == nil {
		return
	}
	p.translationAttempts.WithLabelValues(provider, outcome).Inc()
}

func (p *Provider) RecordSpeechSynthesis(provider, outcome string) {
	if p == nil || p.speechSynthesis == nil {
		return
	}
	p.speechSynthesis.WithLabelValues(provider, outcome).Inc()
}

func (p *Provider) RecordAudioSwept(n int) {
	if p == nil || p.audioSwept == nil || n <= 0 {
		return
	}
	p.audioSwept.Add(float64(n))
}
