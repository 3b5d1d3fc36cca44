package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ncecere/voice_translator/internal/app"
	"github.com/ncecere/voice_translator/internal/config"
	"github.com/ncecere/voice_translator/internal/httpserver"
)

func main() {
	configFile := flag.String("config", "", "path to translator.yaml (defaults to ./translator.yaml or $TRANSLATOR_CONFIG_FILE)")
	envFile := flag.String("env", "", "optional .env file to load before reading config")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Options{ConfigFile: *configFile, EnvFile: *envFile})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	container, err := app.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("build container: %v", err)
	}
	if container.Observability != nil {
		defer container.Observability.Shutdown(context.Background())
	}

	startAudioSweeper(ctx, container, cfg.Audio)

	server, err := httpserver.New(container)
	if err != nil {
		log.Fatalf("construct server: %v", err)
	}

	container.Logger.Info("translator listening", "addr", cfg.Server.ListenAddr)
	if err := server.Listen(ctx); err != nil && err != context.Canceled {
		log.Fatalf("server stopped: %v", err)
	}
}

func startAudioSweeper(ctx context.Context, container *app.Container, cfg config.AudioConfig) {
	if container.Audio == nil || cfg.TTL <= 0 {
		return
	}
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		run := func() {
			removed, err := container.Audio.SweepExpired(ctx)
			if err != nil {
				log.Printf("audio sweeper error: %v", err)
				return
			}
			container.Observability.RecordAudioSwept(removed)
			if removed > 0 {
				container.Logger.Info("expired audio removed", "count", removed)
			}
		}
		run()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
