package translate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ncecere/voice_translator/internal/catalog"
	"github.com/ncecere/voice_translator/internal/models"
	"github.com/ncecere/voice_translator/internal/translation"
)

const (
	EmptyTextMessage     = "Please enter some text to translate."
	FailedMessage        = "Translation failed. Please try again or check server logs."
	autoDetectedTemplate = "Auto-detected: "
)

// Translator is satisfied by *translation.Retrier.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, destLang string) translation.Outcome
}

// Synthesizer is satisfied by *speech.Writer.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, langCode string, slow bool) (string, bool)
}

type Defaults struct {
	Source      string
	Destination string
}

// Service turns a browser request into a response, never failing outright.
type Service struct {
	translator Translator
	speech     Synthesizer
	defaults   Defaults
	logger     *slog.Logger
}

func NewService(translator Translator, speech Synthesizer, defaults Defaults, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.Source == "" {
		defaults.Source = "en"
	}
	if defaults.Destination == "" {
		defaults.Destination = "es"
	}
	return &Service{translator: translator, speech: speech, defaults: defaults, logger: logger}
}

// Handle validates the input, translates, optionally synthesizes speech and
// assembles the response.
func (s *Service) Handle(ctx context.Context, in models.TranslateInput) models.TranslationResponse {
	text := strings.TrimSpace(in.Text)
	src := normalizeCode(in.SourceLang, s.defaults.Source)
	dest := normalizeCode(in.DestLang, s.defaults.Destination)

	resp := models.TranslationResponse{
		OriginalText:   text,
		SourceLangName: catalog.LanguageName(src),
		DestLangName:   catalog.LanguageName(dest),
	}
	if text == "" {
		resp.TranslatedText = EmptyTextMessage
		return resp
	}

	for _, code := range []string{src, dest} {
		if code != models.AutoDetect && !catalog.KnownLanguage(code) {
			s.logger.Warn("unknown language code forwarded to provider", slog.String("code", code))
		}
	}

	s.logger.Info("translation requested",
		slog.String("source", src),
		slog.String("destination", dest),
		slog.Int("chars", len(text)),
		slog.Bool("speak", in.SpeakOutput),
	)

	outcome := s.translator.Translate(ctx, text, src, dest)
	if !outcome.OK {
		resp.TranslatedText = FailedMessage
		return resp
	}
	resp.TranslatedText = outcome.Text

	if detected := strings.ToLower(strings.TrimSpace(outcome.DetectedSource)); detected != "" {
		resp.DetectedSourceLang = &detected
		if src == models.AutoDetect {
			resp.SourceLangName = autoDetectedTemplate + catalog.LanguageName(detected)
		}
	}

	if in.SpeakOutput && s.speech != nil {
		if url, ok := s.speech.Synthesize(ctx, outcome.Text, dest, in.SlowSpeech); ok {
			resp.AudioURL = &url
		}
	}
	return resp
}

func normalizeCode(code, fallback string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return fallback
	}
	return code
}
