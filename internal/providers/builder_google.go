package providers

import (
	"context"

	"github.com/ncecere/voice_translator/internal/adapters/google"
	"github.com/ncecere/voice_translator/internal/config"
)

func init() {
	RegisterDefinition(Definition{
		Name:         "google",
		Description:  "Google Translate web endpoints (keyless translate + translate_tts)",
		Capabilities: []string{CapabilityTranslate, CapabilitySpeech},
		Builder:      buildGoogleInstance,
	})
}

func buildGoogleInstance(ctx context.Context, cfg *config.Config) (Instance, error) {
	cfg = EnsureConfig(cfg)
	gc := cfg.Providers.Google
	adapter, err := google.New(google.Options{
		TranslateURL: gc.TranslateURL,
		TTSURL:       gc.TTSURL,
		Timeout:      gc.Timeout,
		UserAgent:    gc.UserAgent,
	})
	if err != nil {
		return Instance{}, err
	}
	return Instance{
		Name: "google",
		Metadata: map[string]string{
			"translate_url": gc.TranslateURL,
			"tts_url":       gc.TTSURL,
		},
		Translator:   adapter,
		TextToSpeech: adapter,
		Health:       adapter.HealthCheck,
	}, nil
}
