package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songsmith/internal/session"
	"github.com/desertthunder/songsmith/internal/shared"
	"github.com/desertthunder/songsmith/internal/tasks"
	"github.com/desertthunder/songsmith/internal/ui"
	"github.com/desertthunder/songsmith/internal/view"
)

// Dashboard launches the interactive dashboard, seeded with any tokens from flags or the environment.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	tab, err := view.ParseTab(cmd.String("tab"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	store, err := r.openSession(cmd)
	if err != nil {
		return err
	}
	return r.runDashboard(ctx, store, tab)
}

func (r *Runner) runDashboard(ctx context.Context, store session.Store, tab view.Tab) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	navigations := ui.NewNavigations()
	loader := tasks.NewLoader(tasks.LoaderOpts{
		Store:         store,
		Fetcher:       r.backend,
		Refresher:     session.NewRefresher(store, r.backend, fileLogger),
		Navigator:     navigations,
		RedirectDelay: r.config.Client.RedirectDelay(),
		Logger:        fileLogger,
	})
	defer loader.Unmount()

	model := ui.NewModel(ctx, ui.ModelOpts{
		Store:       store,
		Loader:      loader,
		Navigations: navigations,
		Login: func(ctx context.Context) (session.Navigation, error) {
			return r.authorize(ctx, store, nil)
		},
		LoginURL: r.backend.LoginURL(),
		Tab:      tab,
		Logger:   fileLogger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
