package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songsmith/internal/server"
	"github.com/desertthunder/songsmith/internal/services"
	"github.com/desertthunder/songsmith/internal/shared"
)

// Serve runs the backend until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	creds := r.config.Credentials.Spotify
	if !creds.Valid() {
		return fmt.Errorf("%w: set [credentials.spotify] or SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET", shared.ErrMissingCredentials)
	}

	spotify, err := services.NewSpotifyService(creds, cfg.SpotifyAPIURL, cfg.RateLimit, r.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("backend configured", "service", spotify.Name(), "frontend", cfg.FrontendURL, "rate_limit", cfg.RateLimit)
	return server.Serve(ctx, cfg.Addr(), server.NewBackend(spotify, cfg.FrontendURL, r.logger), r.logger)
}
