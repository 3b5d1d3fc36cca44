package speech

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ncecere/voice_translator/internal/models"
	"github.com/ncecere/voice_translator/internal/observability"
	"github.com/ncecere/voice_translator/internal/providers"
	"github.com/ncecere/voice_translator/internal/services/audio"
)

// ArtifactStore persists synthesized audio.
type ArtifactStore interface {
	Save(ctx context.Context, body io.Reader, contentType string) (audio.Artifact, error)
}

type Options struct {
	ProviderName  string
	Logger        *slog.Logger
	Observability *observability.Provider
}

// Writer renders text to speech and stores the result as a public audio artifact.
type Writer struct {
	tts          providers.TextToSpeech
	artifacts    ArtifactStore
	providerName string
	logger       *slog.Logger
	obs          *observability.Provider
}

func NewWriter(tts providers.TextToSpeech, artifacts ArtifactStore, opts Options) *Writer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ProviderName == "" {
		opts.ProviderName = "speech"
	}
	return &Writer{
		tts:          tts,
		artifacts:    artifacts,
		providerName: opts.ProviderName,
		logger:       opts.Logger,
		obs:          opts.Observability,
	}
}

// Synthesize makes a single provider call and returns the artifact URL.
// ok is false on any failure; errors are logged, never returned.
func (w *Writer) Synthesize(ctx context.Context, text, langCode string, slow bool) (string, bool) {
	lang := BaseLanguage(langCode)
	ctx, end := observability.StartSpan(ctx, "speech.synthesize",
		attribute.String("speech.provider", w.providerName),
		attribute.String("speech.language", lang),
	)
	log := w.logger.With(slog.String("provider", w.providerName), slog.String("language", lang), slog.Bool("slow", slow))

	started := time.Now()
	resp, err := w.tts.Synthesize(ctx, models.SpeechRequest{Text: text, Language: lang, Slow: slow, Format: "mp3"})
	if err == nil && len(resp.Audio) == 0 {
		err = errors.New("speech provider returned no audio")
	}
	if err != nil {
		w.obs.RecordProviderLatency(w.providerName, "speech", "failure", time.Since(started))
		w.obs.RecordSpeechSynthesis(w.providerName, "failure")
		log.Error("speech synthesis failed", slog.Any("error", err))
		end(err)
		return "", false
	}
	w.obs.RecordProviderLatency(w.providerName, "speech", "success", time.Since(started))

	artifact, err := w.artifacts.Save(ctx, bytes.NewReader(resp.Audio), resp.ContentType)
	if err != nil {
		w.obs.RecordSpeechSynthesis(w.providerName, "store_failure")
		log.Error("store speech audio failed", slog.Any("error", err))
		end(err)
		return "", false
	}
	w.obs.RecordSpeechSynthesis(w.providerName, "success")
	log.Info("speech audio stored", slog.String("name", artifact.Name), slog.Int64("bytes", artifact.Size))
	end(nil)
	return artifact.URL, true
}

// BaseLanguage strips any region or script suffix ("en-US" -> "en").
func BaseLanguage(code string) string {
	code = strings.TrimSpace(code)
	if idx := strings.IndexAny(code, "-_"); idx >= 0 {
		code = code[:idx]
	}
	return strings.ToLower(code)
}
