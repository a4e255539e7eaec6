package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/chi-demo/middleware"
	"github.com/tendant/simple-export/pkg/simpleexport/api"
	"github.com/tendant/simple-export/pkg/simpleexport/config"
)

type Config struct {
	Environment  string `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL  string `env:"DATABASE_URL" env-default:"memory"`
	ArchiveURL   string `env:"ARCHIVE_URL" env-default:"memory://"`
	ApiKeySHA256 string `env:"API_KEY_SHA256" env-default:"1"`
}

func main() {
	var envConfig Config
	if err := cleanenv.ReadEnv(&envConfig); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := serverConfig.BuildService(ctx)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	server := app.DefaultWithoutRoutes()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	exportHandler := api.NewExportHandler(svc)

	apiKeyConfig := middleware.ApiKeyConfig{
		APIKeys: map[string]string{
			"key1": envConfig.ApiKeySHA256,
		},
	}
	apiKeyMiddleware, err := middleware.ApiKeyMiddleware(apiKeyConfig)
	if err != nil {
		slog.Error("Failed to initialize API Key middleware", "err", err)
		return
	}

	server.R.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apiKeyMiddleware)
			r.Mount("/exports", exportHandler.Routes())
		})
	})

	slog.Info("Simple Export Server starting",
		"env", serverConfig.Environment,
		"database", serverConfig.DatabaseType,
		"archive", serverConfig.ArchiveType)

	server.Run()
}
