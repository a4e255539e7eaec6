// The sweeper soft-deletes expired exports and reclaims archive blobs with no
// remaining live referrer. It runs once and exits; schedule it with cron or a
// Kubernetes CronJob.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/simple-export/pkg/simpleexport/config"
)

type Config struct {
	Timeout time.Duration `env:"SWEEP_TIMEOUT" env-default:"10m"`
}

func main() {
	var envConfig Config
	if err := cleanenv.ReadEnv(&envConfig); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), envConfig.Timeout)
	defer cancel()

	svc, err := serverConfig.BuildService(ctx)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	result, err := svc.SweepExpired(ctx)
	if err != nil {
		slog.Error("Sweep failed", "err", err)
		os.Exit(1)
	}

	for id, sweepErr := range result.Failed {
		slog.Error("Failed to sweep export", "export_id", id, "err", sweepErr)
	}

	slog.Info("Sweep finished",
		"swept", result.Swept,
		"reclaimed", result.Reclaimed,
		"failed", len(result.Failed))

	if len(result.Failed) > 0 {
		os.Exit(1)
	}
}
