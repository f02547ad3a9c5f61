// nextup - personal GTD organizer with a natural-language assistant.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/normanking/nextup/internal/assistant"
	"github.com/normanking/nextup/internal/config"
	"github.com/normanking/nextup/internal/inference"
	"github.com/normanking/nextup/internal/logging"
	"github.com/normanking/nextup/internal/scheduler"
	"github.com/normanking/nextup/internal/server"
	"github.com/normanking/nextup/internal/storage"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("nextup v%s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.FromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	logger.Info("Starting nextup", "version", version)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()
	logger.Info("Store ready", "backend", cfg.Storage.Backend)

	var client inference.Client
	aiClient, err := inference.NewOpenAIClient(&inference.OpenAIConfig{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.ResolvedAPIKey(),
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.GetTimeout(),
	})
	if err != nil {
		logger.Warn("Model client unavailable, assistant will run in backup mode", "error", err)
	} else {
		client = aiClient
		if !aiClient.Configured() {
			logger.Warn("No API key configured, assistant will run in backup mode")
		}
	}

	breaker := assistant.NewCircuitBreaker(assistant.CircuitBreakerConfig{
		FailureThreshold: cfg.AI.FailureThreshold,
		RecoveryTimeout:  cfg.AI.GetRecoveryTimeout(),
		OnStateChange: func(from, to assistant.CircuitState) {
			logger.Warn("Model circuit state changed", "from", from.String(), "to", to.String())
		},
	})
	assist := assistant.New(client, store, breaker, logger.Component("assistant"))

	srv := server.New(cfg, store, assist, logger.Component("server"))

	var sched *scheduler.Scheduler
	if cfg.Digest.Enabled {
		sched, err = scheduler.New(store, cfg.Digest.Schedule, logger.Component("scheduler"))
		if err != nil {
			return fmt.Errorf("failed to schedule digest: %w", err)
		}
		sched.Start()
		defer sched.Stop()
		logger.Info("Digest scheduled", "cron", cfg.Digest.Schedule)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Shutting down...", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// openStore selects the persistence backend from config. Anything other
// than "memory" gets the SQLite store.
func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Backend == "memory" {
		return storage.NewMemoryStore(), nil
	}
	return storage.NewSQLiteStore(cfg.Storage.Path)
}
