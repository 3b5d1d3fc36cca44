package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ncecere/voice_translator/internal/config"
	"github.com/ncecere/voice_translator/internal/models"
)

type stubTranslator struct{}

func (stubTranslator) Translate(context.Context, models.TranslationRequest) (models.TranslationResult, error) {
	return models.TranslationResult{Text: "ok"}, nil
}

type stubSpeech struct{}

func (stubSpeech) Synthesize(context.Context, models.SpeechRequest) (models.SpeechResponse, error) {
	return models.SpeechResponse{Audio: []byte("mp3")}, nil
}

func testConfig(translate, speech string) *config.Config {
	cfg := &config.Config{}
	cfg.Translation.Provider = translate
	cfg.Speech.Provider = speech
	return cfg
}

func TestFactoryBuildSharesInstance(t *testing.T) {
	calls := 0
	f := &Factory{cfg: testConfig("fake", "fake")}
	f.Register("fake", func(ctx context.Context, cfg *config.Config) (Instance, error) {
		calls++
		return Instance{Translator: stubTranslator{}, TextToSpeech: stubSpeech{}, Health: func(context.Context) error { return nil }}, nil
	})

	set, err := f.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, "fake", set.TranslatorName)
	require.Equal(t, "fake", set.SpeechName)
	require.Len(t, set.HealthChecks(), 1)
	require.Equal(t, []string{CapabilityTranslate, CapabilitySpeech}, set.Instances["fake"].Capabilities())
}

func TestFactoryBuildRejectsMissingCapability(t *testing.T) {
	f := &Factory{cfg: testConfig("textonly", "textonly")}
	f.Register("textonly", func(ctx context.Context, cfg *config.Config) (Instance, error) {
		return Instance{Translator: stubTranslator{}}, nil
	})
	_, err := f.Build(context.Background())
	require.ErrorContains(t, err, "does not support speech synthesis")
}

func TestFactoryBuildUnknownProvider(t *testing.T) {
	f := &Factory{cfg: testConfig("nope", "nope")}
	_, err := f.Build(context.Background())
	require.ErrorContains(t, err, `provider "nope" unsupported`)
}

func TestFactoryBuildPropagatesBuilderError(t *testing.T) {
	f := &Factory{cfg: testConfig("broken", "broken")}
	f.Register("broken", func(ctx context.Context, cfg *config.Config) (Instance, error) {
		return Instance{}, errors.New("boom")
	})
	_, err := f.Build(context.Background())
	require.ErrorContains(t, err, `provider "broken": boom`)
}

func TestDefaultDefinitionsRegistered(t *testing.T) {
	defs := DefaultDefinitions()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	require.Equal(t, []string{"bedrock", "google", "openai"}, names)
}

func TestOpenAIBuilderRequiresKey(t *testing.T) {
	_, err := buildOpenAIInstance(context.Background(), testConfig("openai", "openai"))
	require.ErrorContains(t, err, "requires api key")
}
