package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songsmith/internal/services"
	"github.com/desertthunder/songsmith/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	if p, ok := os.LookupEnv("SONGSMITH_CONFIG"); ok && p != "" {
		configPath = p
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	shared.ApplyEnv(config, ".env")
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	backend := services.NewBackendClient(config.Backend.URL, &http.Client{Timeout: 30 * time.Second})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		EnvPath:    ".env",
		Backend:    backend,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "songsmith",
		Usage:    "Discover your music taste from Spotify",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
