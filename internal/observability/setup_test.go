package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ncecere/voice_translator/internal/config"
)

func TestSetupDisabledReturnsNil(t *testing.T) {
	p, err := Setup(context.Background(), config.ObservabilityConfig{})
	require.NoError(t, err)
	require.Nil(t, p)

	// nil provider methods are no-ops
	p.RecordHTTPRequest(context.Background(), "GET", "/", 200, time.Millisecond)
	p.RecordTranslationAttempt("google", "success")
	p.RecordSpeechSynthesis("google", "success")
	p.RecordAudioSwept(3)
	require.Nil(t, p.PrometheusHandler())
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestMetricsExposed(t *testing.T) {
	p, err := Setup(context.Background(), config.ObservabilityConfig{EnableMetrics: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	p.RecordTranslationAttempt("google", "transient")
	p.RecordSpeechSynthesis("google", "failure")
	p.RecordProviderLatency("google", "translate", "success", 20*time.Millisecond)
	p.RecordHTTPRequest(context.Background(), "POST", "/translate", 200, time.Millisecond)
	p.RecordAudioSwept(2)

	rec := httptest.NewRecorder()
	p.PrometheusHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	for _, want := range []string{
		`voice_translator_translation_attempts_total{outcome="transient",provider="google"} 1`,
		`voice_translator_speech_synthesis_total{outcome="failure",provider="google"} 1`,
		`voice_translator_audio_artifacts_swept_total 2`,
		"voice_translator_http_requests_total",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestStartSpanEnds(t *testing.T) {
	ctx, end := StartSpan(context.Background(), "test")
	require.NotNil(t, ctx)
	end(nil)
}
