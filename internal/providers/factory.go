package providers

import (
	"context"
	"fmt"

	"github.com/ncecere/voice_translator/internal/catalog"
	"github.com/ncecere/voice_translator/internal/config"
)

// Builder constructs a provider instance from configuration.
type Builder func(ctx context.Context, cfg *config.Config) (Instance, error)

// Factory builds the configured providers using a registry of builders.
type Factory struct {
	cfg      *config.Config
	builders map[string]Builder
}

// NewFactory creates a factory with the default provider registry.
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{cfg: cfg, builders: cloneDefaultBuilders()}
}

// Register allows tests or callers to override provider builders.
func (f *Factory) Register(name string, builder Builder) {
	if f.builders == nil {
		f.builders = make(map[string]Builder)
	}
	f.builders[name] = builder
}

// Build resolves the translation and speech providers. A provider named by
// both settings is built once and shared.
func (f *Factory) Build(ctx context.Context) (*Set, error) {
	cfg := EnsureConfig(f.cfg)
	set := &Set{Instances: make(map[string]Instance)}

	resolve := func(name string) (Instance, error) {
		slug := catalog.NormalizeProviderSlug(name)
		if inst, ok := set.Instances[slug]; ok {
			return inst, nil
		}
		builder, ok := f.builders[slug]
		if !ok {
			return Instance{}, fmt.Errorf("provider %q unsupported", name)
		}
		inst, err := builder(ctx, cfg)
		if err != nil {
			return Instance{}, fmt.Errorf("provider %q: %w", slug, err)
		}
		if inst.Name == "" {
			inst.Name = slug
		}
		set.Instances[slug] = inst
		return inst, nil
	}

	translator, err := resolve(cfg.Translation.Provider)
	if err != nil {
		return nil, err
	}
	if translator.Translator == nil {
		return nil, fmt.Errorf("provider %q does not support translation", translator.Name)
	}
	set.TranslatorName = translator.Name
	set.Translator = translator.Translator

	speech, err := resolve(cfg.Speech.Provider)
	if err != nil {
		return nil, err
	}
	if speech.TextToSpeech == nil {
		return nil, fmt.Errorf("provider %q does not support speech synthesis", speech.Name)
	}
	set.SpeechName = speech.Name
	set.Speech = speech.TextToSpeech
	return set, nil
}
