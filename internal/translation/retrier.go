package translation

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ncecere/voice_translator/internal/models"
	"github.com/ncecere/voice_translator/internal/observability"
	"github.com/ncecere/voice_translator/internal/providers"
	"github.com/ncecere/voice_translator/internal/providers/providererr"
)

const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = time.Second
	// MaxBackoff caps a single wait between attempts.
	MaxBackoff = 5 * time.Minute
)

// ErrEmptyTranslation is raised when the provider answers without any text.
var ErrEmptyTranslation = errors.New("empty or invalid translation response")

// transientMarkers are matched against error messages that carry no structured kind.
var transientMarkers = []string{
	"too many requests",
	"timeout",
	"connection",
	"bad response from google translate",
}

// Outcome is the result of a retried translation. OK is false on failure.
type Outcome struct {
	OK             bool
	Text           string
	DetectedSource string
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Options struct {
	MaxRetries    int
	InitialDelay  time.Duration
	Sleep         SleepFunc
	Logger        *slog.Logger
	Observability *observability.Provider
	ProviderName  string
}

// Retrier calls a translation provider with exponential backoff on transient failures.
type Retrier struct {
	provider     providers.Translator
	providerName string
	maxRetries   int
	initialDelay time.Duration
	sleep        SleepFunc
	logger       *slog.Logger
	obs          *observability.Provider
	now          func() time.Time
}

func NewRetrier(provider providers.Translator, opts Options) *Retrier {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultInitialDelay
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ProviderName == "" {
		opts.ProviderName = "translator"
	}
	return &Retrier{
		provider:     provider,
		providerName: opts.ProviderName,
		maxRetries:   opts.MaxRetries,
		initialDelay: opts.InitialDelay,
		sleep:        opts.Sleep,
		logger:       opts.Logger,
		obs:          opts.Observability,
		now:          time.Now,
	}
}

// Translate runs up to MaxRetries attempts. Transient failures back off for
// InitialDelay*2^(attempt-1) before the next attempt; the last failing attempt
// does not wait. Any other failure ends the loop immediately.
func (r *Retrier) Translate(ctx context.Context, text, sourceLang, destLang string) Outcome {
	ctx, end := observability.StartSpan(ctx, "translation.translate",
		attribute.String("translation.provider", r.providerName),
		attribute.String("translation.source", sourceLang),
		attribute.String("translation.destination", destLang),
	)
	var lastErr error
	defer func() { end(lastErr) }()

	req := models.TranslationRequest{Text: text, SourceLanguage: sourceLang, DestinationLanguage: destLang}
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		log := r.logger.With(
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.maxRetries),
			slog.String("provider", r.providerName),
			slog.String("source", sourceLang),
			slog.String("destination", destLang),
		)
		log.Debug("translation attempt")

		started := r.now()
		res, err := r.provider.Translate(ctx, req)
		if err == nil && strings.TrimSpace(res.Text) == "" {
			err = ErrEmptyTranslation
		}
		if err == nil {
			r.obs.RecordProviderLatency(r.providerName, "translate", "success", r.now().Sub(started))
			r.obs.RecordTranslationAttempt(r.providerName, "success")
			log.Info("translation succeeded", slog.String("detected_source", res.DetectedSource))
			return Outcome{OK: true, Text: res.Text, DetectedSource: res.DetectedSource}
		}
		lastErr = err

		if ctx.Err() != nil {
			r.obs.RecordTranslationAttempt(r.providerName, "canceled")
			log.Warn("translation canceled", slog.Any("error", err))
			return Outcome{}
		}
		if !IsTransient(err) {
			r.obs.RecordProviderLatency(r.providerName, "translate", "fatal", r.now().Sub(started))
			r.obs.RecordTranslationAttempt(r.providerName, "fatal")
			log.Error("translation failed with non-retryable error", slog.Any("error", err))
			return Outcome{}
		}
		r.obs.RecordProviderLatency(r.providerName, "translate", "transient", r.now().Sub(started))
		r.obs.RecordTranslationAttempt(r.providerName, "transient")

		if attempt == r.maxRetries {
			log.Error("translation failed after max retries", slog.Any("error", err))
			return Outcome{}
		}
		delay := r.backoff(attempt)
		log.Warn("transient translation error, retrying", slog.Any("error", err), slog.Duration("delay", delay))
		if err := r.sleep(ctx, delay); err != nil {
			lastErr = err
			log.Warn("translation backoff interrupted", slog.Any("error", err))
			return Outcome{}
		}
	}
	return Outcome{}
}

// backoff returns InitialDelay*2^(attempt-1), clamped to MaxBackoff.
func (r *Retrier) backoff(attempt int) time.Duration {
	delay := r.initialDelay
	for i := 1; i < attempt; i++ {
		if delay >= MaxBackoff/2 {
			return MaxBackoff
		}
		delay *= 2
	}
	if delay > MaxBackoff {
		return MaxBackoff
	}
	return delay
}

// IsTransient reports whether err is worth another attempt. Structured provider
// errors decide by kind; otherwise network timeouts and known message fragments
// are treated as transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var perr *providererr.Error
	if errors.As(err, &perr) {
		return perr.Transient()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
