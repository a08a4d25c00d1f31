package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/m3rciful/ipobot/core/bootstrap"
	"github.com/m3rciful/ipobot/core/cmd"
	"github.com/m3rciful/ipobot/core/logger"
	"github.com/m3rciful/ipobot/internal/bot"
	"github.com/m3rciful/ipobot/internal/config"
	"github.com/m3rciful/ipobot/internal/ipo"
	"github.com/m3rciful/ipobot/internal/pans"
	"github.com/m3rciful/ipobot/internal/storage"

	"log/slog"
)

const (
	maxRestarts    = 5
	restartBackoff = 2 * time.Second
)

func main() {
	if err := runSupervised(); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

// runSupervised restarts the bot on failure with exponential backoff.
// A clean return (shutdown signal) exits the loop.
func runSupervised() error {
	for attempt := 0; ; attempt++ {
		err := run()
		if err == nil {
			return nil
		}
		if attempt >= maxRestarts {
			return fmt.Errorf("giving up after %d restarts: %w", maxRestarts, err)
		}
		wait := restartBackoff << attempt
		log.Printf("bot stopped: %v; restarting in %s", err, wait)
		time.Sleep(wait)
	}
}

func run() error {
	return cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: buildApp,
	})
}

func buildApp(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:       cfg.CoreConfig(),
		Database:     cfg.Database,
		SkipDatabase: !cfg.HasDatabase(),
	})
	if err != nil {
		return nil, err
	}

	var store storage.Store
	if res.DB != nil {
		store = storage.NewPostgresStore(res.DB, cfg.Pans.MaxPerUser)
	} else {
		store = storage.NewMemoryStore(cfg.Pans.MaxPerUser)
		logger.L.With("component", "app").Warn("no database configured",
			slog.String("event", "storage.fallback"),
			slog.String("store", "memory"),
		)
	}

	client := ipo.NewClient(ipo.Options{
		BaseURL:      cfg.IPO.BaseURL,
		ListTimeout:  time.Duration(cfg.IPO.ListTimeoutSeconds) * time.Second,
		CheckTimeout: time.Duration(cfg.IPO.CheckTimeoutSeconds) * time.Second,
	})

	return bot.New(cfg, pans.NewService(store), client)
}
