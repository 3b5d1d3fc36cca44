package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ncecere/voice_translator/internal/models"
	"github.com/ncecere/voice_translator/internal/providers/providererr"
)

type scriptedTranslator struct {
	steps []step
	calls int
}

type step struct {
	res models.TranslationResult
	err error
}

func (s *scriptedTranslator) Translate(ctx context.Context, req models.TranslationRequest) (models.TranslationResult, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.steps) {
		return models.TranslationResult{}, errors.New("unexpected call")
	}
	return s.steps[idx].res, s.steps[idx].err
}

type sleepRecorder struct {
	delays []time.Duration
	err    error
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return r.err
}

func newTestRetrier(tr *scriptedTranslator, rec *sleepRecorder) *Retrier {
	return NewRetrier(tr, Options{MaxRetries: 3, InitialDelay: time.Second, Sleep: rec.sleep, ProviderName: "fake"})
}

func TestTranslateSucceedsAfterTransientFailures(t *testing.T) {
	tr := &scriptedTranslator{steps: []step{
		{err: errors.New("request timeout")},
		{err: errors.New("request timeout")},
		{res: models.TranslationResult{Text: "Hola", DetectedSource: "en"}},
	}}
	rec := &sleepRecorder{}

	out := newTestRetrier(tr, rec).Translate(context.Background(), "Hello", "en", "es")

	require.True(t, out.OK)
	require.Equal(t, "Hola", out.Text)
	require.Equal(t, "en", out.DetectedSource)
	require.Equal(t, 3, tr.calls)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestTranslateStopsOnNonTransientError(t *testing.T) {
	tr := &scriptedTranslator{steps: []step{
		{err: errors.New("invalid argument")},
		{res: models.TranslationResult{Text: "never"}},
	}}
	rec := &sleepRecorder{}

	out := newTestRetrier(tr, rec).Translate(context.Background(), "Hello", "en", "es")

	require.False(t, out.OK)
	require.Equal(t, 1, tr.calls)
	require.Empty(t, rec.delays)
}

func TestTranslateExhaustsRetries(t *testing.T) {
	transient := providererr.FromStatus("google", http.StatusTooManyRequests, "")
	tr := &scriptedTranslator{steps: []step{{err: transient}, {err: transient}, {err: transient}}}
	rec := &sleepRecorder{}

	out := newTestRetrier(tr, rec).Translate(context.Background(), "Hello", "en", "es")

	require.False(t, out.OK)
	require.Equal(t, 3, tr.calls)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestTranslateEmptyResultIsFailure(t *testing.T) {
	tr := &scriptedTranslator{steps: []step{{res: models.TranslationResult{Text: "  "}}}}
	rec := &sleepRecorder{}

	out := newTestRetrier(tr, rec).Translate(context.Background(), "Hello", "en", "es")

	require.False(t, out.OK)
	require.Equal(t, 1, tr.calls)
	require.Empty(t, rec.delays)
}

func TestTranslateSleepInterrupted(t *testing.T) {
	tr := &scriptedTranslator{steps: []step{
		{err: errors.New("connection reset")},
		{res: models.TranslationResult{Text: "never"}},
	}}
	rec := &sleepRecorder{err: context.Canceled}

	out := newTestRetrier(tr, rec).Translate(context.Background(), "Hello", "en", "es")

	require.False(t, out.OK)
	require.Equal(t, 1, tr.calls)
	require.Len(t, rec.delays, 1)
}

func TestTranslateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := &scriptedTranslator{steps: []step{{err: context.Canceled}}}
	rec := &sleepRecorder{}

	out := newTestRetrier(tr, rec).Translate(ctx, "Hello", "en", "es")

	require.False(t, out.OK)
	require.Equal(t, 1, tr.calls)
	require.Empty(t, rec.delays)
}

func TestSleepContextHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	require.NoError(t, sleepContext(context.Background(), time.Millisecond))
}

type netTimeout struct{}

func (netTimeout) Error() string   { return "i/o deadline reached" }
func (netTimeout) Timeout() bool   { return true }
func (netTimeout) Temporary() bool { return false }

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rate limited kind", err: providererr.FromStatus("google", http.StatusTooManyRequests, ""), want: true},
		{name: "bad response kind", err: providererr.FromStatus("google", http.StatusBadGateway, ""), want: true},
		{name: "invalid kind", err: providererr.FromStatus("google", http.StatusBadRequest, "timeout in message"), want: false},
		{name: "wrapped kind", err: fmt.Errorf("call: %w", providererr.New("openai", providererr.KindConnection, 0, nil)), want: true},
		{name: "net timeout", err: netTimeout{}, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "too many requests text", err: errors.New("429 Too Many Requests"), want: true},
		{name: "connection text", err: errors.New("Connection aborted"), want: true},
		{name: "google text", err: errors.New("Bad response from Google Translate"), want: true},
		{name: "empty result", err: ErrEmptyTranslation, want: false},
		{name: "invalid argument", err: errors.New("invalid argument"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransient(tc.err); got != tc.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestBackoffClampsLongRuns(t *testing.T) {
	tr := &scriptedTranslator{}
	for i := 0; i < 40; i++ {
		tr.steps = append(tr.steps, step{err: errors.New("timeout")})
	}
	rec := &sleepRecorder{}
	r := NewRetrier(tr, Options{MaxRetries: 40, InitialDelay: time.Second, Sleep: rec.sleep})

	out := r.Translate(context.Background(), "hello", "en", "es")
	require.False(t, out.OK)
	require.Len(t, rec.delays, 39)
	require.Equal(t, time.Second, rec.delays[0])
	require.Equal(t, 2*time.Second, rec.delays[1])
	for i, d := range rec.delays {
		if d <= 0 || d > MaxBackoff {
			t.Fatalf("delay %d out of range: %v", i, d)
		}
		if i > 0 && d < rec.delays[i-1] {
			t.Fatalf("delay %d decreased: %v < %v", i, d, rec.delays[i-1])
		}
	}
	require.Equal(t, MaxBackoff, rec.delays[len(rec.delays)-1])
}

func TestNewRetrierDefaultsZeroDelay(t *testing.T) {
	tr := &scriptedTranslator{steps: []step{{err: errors.New("timeout")}, {res: models.TranslationResult{Text: "hola"}}}}
	rec := &sleepRecorder{}
	r := NewRetrier(tr, Options{Sleep: rec.sleep})

	out := r.Translate(context.Background(), "hello", "en", "es")
	require.True(t, out.OK)
	require.Equal(t, []time.Duration{DefaultInitialDelay}, rec.delays)
}
