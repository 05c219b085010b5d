// main package for the beeps-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/book-expert/beeps-service/internal/config"
	"github.com/book-expert/beeps-service/internal/objectstore"
	"github.com/book-expert/beeps-service/internal/playback"
	"github.com/book-expert/beeps-service/internal/player"
	"github.com/book-expert/beeps-service/internal/worker"
	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "beeps-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		// If bootstrap logger fails, we can only print to stderr
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	// 2. Load configuration using the central configurator
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 3. Initialize the final logger based on the loaded configuration
	log, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := log.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, log)
}

// serve wires the audio device, the player, the score store, and the worker,
// then blocks until shutdown.
func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	sampleRate := cfg.Playback.SampleRate
	if sampleRate <= 0 {
		sampleRate = player.NewConfig().SampleRate
	}

	device, err := playback.NewOtoDevice(sampleRate)
	if err != nil {
		log.Error("Failed to initialize audio output: %v", err)

		return fmt.Errorf("failed to initialize audio output: %w", err)
	}

	playerCfg := player.NewConfig()
	playerCfg.Volume = cfg.Playback.Volume
	playerCfg.Mute = cfg.Playback.Mute
	playerCfg.SampleRate = sampleRate

	if cfg.Playback.FadeSamples > 0 {
		playerCfg.FadeSamples = cfg.Playback.FadeSamples
	}

	beepsPlayer, err := player.New(playerCfg, device, log)
	if err != nil {
		log.Error("Invalid playback configuration: %v", err)

		return fmt.Errorf("invalid playback configuration: %w", err)
	}

	defer func() {
		// Waits out the in-flight sound so shutdown never truncates audio.
		closeErr := beepsPlayer.Close(context.Background())
		if closeErr != nil {
			log.Warn("Failed to shut down playback cleanly: %v", closeErr)
		}
	}()

	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		log.Error("Failed to connect to NATS at %s: %v", cfg.NATS.URL, err)

		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}

	scoreStore, err := objectstore.New(jetstreamContext, cfg.NATS.ScoreBucket)
	if err != nil {
		return fmt.Errorf("failed to open score store: %w", err)
	}

	natsWorker, err := worker.NewNatsWorker(
		natsConnection,
		cfg.NATS.PlayRequestedSubject,
		scoreStore,
		beepsPlayer,
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	log.System(
		"Beeps service initialized. Listening for play requests on subject: %s",
		cfg.NATS.PlayRequestedSubject,
	)

	err = natsWorker.Run(ctx)
	if err != nil {
		return fmt.Errorf("worker stopped with error: %w", err)
	}

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
