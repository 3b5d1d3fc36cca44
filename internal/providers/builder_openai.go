package providers

import (
	"context"
	"fmt"
	"strings"

	native "github.com/ncecere/voice_translator/internal/adapters/openai"
	"github.com/ncecere/voice_translator/internal/config"
)

func init() {
	RegisterDefinition(Definition{
		Name:         "openai",
		Description:  "OpenAI API or compatible endpoint (chat translation, audio speech)",
		Capabilities: []string{CapabilityTranslate, CapabilitySpeech},
		Builder:      buildOpenAIInstance,
	})
}

func buildOpenAIInstance(ctx context.Context, cfg *config.Config) (Instance, error) {
	cfg = EnsureConfig(cfg)
	oc := cfg.Providers.OpenAI
	apiKey := strings.TrimSpace(oc.APIKey)
	if apiKey == "" {
		return Instance{}, fmt.Errorf("openai provider requires api key (providers.openai.api_key)")
	}
	opts := native.Options{
		APIKey:           apiKey,
		BaseURL:          strings.TrimSpace(oc.BaseURL),
		Organization:     strings.TrimSpace(oc.Organization),
		TranslationModel: strings.TrimSpace(oc.TranslationModel),
		SpeechModel:      strings.TrimSpace(oc.SpeechModel),
		Voice:            strings.TrimSpace(oc.Voice),
	}
	adapter, err := native.New(opts)
	if err != nil {
		return Instance{}, err
	}

	md := map[string]string{
		"translation_model": opts.TranslationModel,
		"speech_model":      opts.SpeechModel,
	}
	if opts.BaseURL != "" {
		md["base_url"] = opts.BaseURL
	}
	return Instance{
		Name:         "openai",
		Metadata:     md,
		Translator:   adapter,
		TextToSpeech: adapter,
		Health:       adapter.HealthCheck,
	}, nil
}
