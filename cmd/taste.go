package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songsmith/internal/formatter"
	"github.com/desertthunder/songsmith/internal/models"
	"github.com/desertthunder/songsmith/internal/services"
	"github.com/desertthunder/songsmith/internal/session"
	"github.com/desertthunder/songsmith/internal/shared"
	"github.com/desertthunder/songsmith/internal/tasks"
)

// Taste runs a single load and prints the report.
func (r *Runner) Taste(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	timeRange, err := models.ParseTimeRange(cmd.String("range"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	store, err := r.openSession(cmd)
	if err != nil {
		return err
	}

	if session.NewGuard(store, r.logger).Enter() == session.Denied {
		return fmt.Errorf("%w: run `songsmith login --save` or set %s", shared.ErrNoSession, accessTokenEnv)
	}

	before, _ := store.Get()

	loader := tasks.NewLoader(tasks.LoaderOpts{
		Store:     store,
		Fetcher:   r.backend,
		Refresher: session.NewRefresher(store, r.backend, r.logger),
		Logger:    r.logger,
	})
	defer loader.Unmount()

	state := loader.Load(ctx)
	if state.Status != tasks.Ready {
		if state.Kind == tasks.SessionExpired {
			if err := r.forgetExpired(before); err != nil {
				r.logger.Warn("failed to remove expired tokens", "path", r.envPath, "error", err)
			}
		}
		if services.IsTransport(state.Err) {
			r.logger.Warn("backend unreachable, is `songsmith serve` running?", "url", r.config.Backend.URL)
		}
		return fmt.Errorf("%s: %w", state.Kind.Message(), state.Err)
	}

	if after, _ := store.Get(); cmd.Bool("save") && after.AccessToken != before.AccessToken {
		if err := r.saveTokens(store); err != nil {
			return err
		}
		r.logger.Info("refreshed token saved", "path", r.envPath)
	}

	data, err := formatter.Render(formatter.NewReport(state.Profile, state.Taste, timeRange, cmd.Int("limit")), format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
