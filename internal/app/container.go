package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ncecere/voice_translator/internal/config"
	"github.com/ncecere/voice_translator/internal/health"
	"github.com/ncecere/voice_translator/internal/observability"
	"github.com/ncecere/voice_translator/internal/providers"
	"github.com/ncecere/voice_translator/internal/services/audio"
	"github.com/ncecere/voice_translator/internal/services/translate"
	"github.com/ncecere/voice_translator/internal/speech"
	"github.com/ncecere/voice_translator/internal/storage/blob"
	"github.com/ncecere/voice_translator/internal/translation"
)

// Container aggregates runtime dependencies for handlers and services.
type Container struct {
	Config        *config.Config
	Logger        *slog.Logger
	Observability *observability.Provider
	Providers     *providers.Set
	Audio         *audio.Service
	Retrier       *translation.Retrier
	Speech        *speech.Writer
	Translate     *translate.Service
	HealthMon     *health.Monitor
}

// NewContainer builds a dependency container using the default provider registry.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	return NewContainerWithFactory(ctx, cfg, providers.NewFactory(cfg))
}

// NewContainerWithFactory builds a container from an explicit provider factory.
func NewContainerWithFactory(ctx context.Context, cfg *config.Config, factory *providers.Factory) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	logger := NewLogger(cfg.Server.Environment)

	obsProvider, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("setup observability: %w", err)
	}

	set, err := factory.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build providers: %w", err)
	}

	blobStore, err := blob.New(ctx, cfg.Audio)
	if err != nil {
		return nil, fmt.Errorf("init audio store: %w", err)
	}
	audioSvc := audio.NewService(blobStore, cfg.Audio, logger.With(slog.String("component", "audio")))

	retrier := translation.NewRetrier(set.Translator, translation.Options{
		MaxRetries:    cfg.Translation.MaxRetries,
		InitialDelay:  cfg.Translation.InitialDelay,
		Logger:        logger.With(slog.String("component", "translation")),
		Observability: obsProvider,
		ProviderName:  set.TranslatorName,
	})
	writer := speech.NewWriter(set.Speech, audioSvc, speech.Options{
		ProviderName:  set.SpeechName,
		Logger:        logger.With(slog.String("component", "speech")),
		Observability: obsProvider,
	})
	translateSvc := translate.NewService(retrier, writer, translate.Defaults{
		Source:      cfg.Translation.DefaultSource,
		Destination: cfg.Translation.DefaultDestination,
	}, logger.With(slog.String("component", "translate")))

	monitor := health.NewMonitor(cfg.Health, logger.With(slog.String("component", "health")))
	checks := make(map[string]health.Check)
	for name, fn := range set.HealthChecks() {
		checks[name] = fn
	}
	monitor.Start(ctx, checks)

	logger.Info("container ready",
		slog.String("translation_provider", set.TranslatorName),
		slog.String("speech_provider", set.SpeechName),
		slog.String("audio_storage", cfg.Audio.Storage),
		slog.Bool("secret_key_set", cfg.Server.SecretKey != ""),
	)

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Observability: obsProvider,
		Providers:     set,
		Audio:         audioSvc,
		Retrier:       retrier,
		Speech:        writer,
		Translate:     translateSvc,
		HealthMon:     monitor,
	}, nil
}
