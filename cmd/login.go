package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songsmith/internal/server"
	"github.com/desertthunder/songsmith/internal/session"
	"github.com/desertthunder/songsmith/internal/shared"
	"github.com/desertthunder/songsmith/internal/view"
)

const (
	accessTokenEnv  = "SONGSMITH_ACCESS_TOKEN"
	refreshTokenEnv = "SONGSMITH_REFRESH_TOKEN"
)

// Login runs the browser authorization and then opens the dashboard on the new session.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openSession(nil)
	if err != nil {
		return err
	}

	nav, err := r.authorize(ctx, store, func(url string) {
		r.writePlain("Open this URL in your browser to log in:\n%s\n", url)
	})
	if err != nil {
		return err
	}
	if nav.Route != session.RouteDashboard {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, nav)
	}

	if cmd.Bool("save") {
		if err := r.saveTokens(store); err != nil {
			return err
		}
		r.logger.Info("tokens saved", "path", r.envPath)
	}

	if cmd.Bool("no-dashboard") {
		return r.writePlain("✓ Logged in\n")
	}
	return r.runDashboard(ctx, store, view.Overview)
}

// authorize opens the backend login page and waits for the /auth-success callback to fill store.
//
// When the browser cannot be opened, fallback receives the URL to show the user.
func (r *Runner) authorize(ctx context.Context, store session.Store, fallback func(string)) (session.Navigation, error) {
	callback := server.NewCallbackServer(r.config.Client.CallbackAddr(), store, r.logger)
	if err := callback.Start(); err != nil {
		return session.Navigation{}, err
	}
	defer callback.Shutdown(context.Background())

	loginURL := r.backend.LoginURL()
	r.logger.Info("opening browser", "url", loginURL)
	if err := r.openBrowser(loginURL); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
		if fallback != nil {
			fallback(loginURL)
		}
	}

	return callback.Wait(ctx, r.config.Client.AuthTimeout())
}

// Logout removes saved tokens from the .env file and the process environment.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openSession(nil)
	if err != nil {
		return err
	}
	if _, err := session.Logout(store); err != nil {
		return err
	}

	removed, err := r.forgetTokens()
	if err != nil {
		return err
	}
	if !removed {
		return r.writePlain("No saved session\n")
	}
	return r.writePlain("✓ Logged out\n")
}

// saveTokens writes the session's tokens into the .env file, keeping its other entries.
func (r *Runner) saveTokens(store session.Store) error {
	sess, err := store.Get()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !sess.Authenticated() {
		return shared.ErrNoSession
	}

	env, err := r.readEnv()
	if err != nil {
		return err
	}
	env[accessTokenEnv] = sess.AccessToken
	if sess.RefreshToken != "" {
		env[refreshTokenEnv] = sess.RefreshToken
	}
	return r.writeEnv(env)
}

// forgetTokens deletes the token entries and reports whether any existed.
func (r *Runner) forgetTokens() (bool, error) {
	os.Unsetenv(accessTokenEnv)
	os.Unsetenv(refreshTokenEnv)

	env, err := r.readEnv()
	if err != nil {
		return false, err
	}

	_, hadAccess := env[accessTokenEnv]
	_, hadRefresh := env[refreshTokenEnv]
	if !hadAccess && !hadRefresh {
		return false, nil
	}

	delete(env, accessTokenEnv)
	delete(env, refreshTokenEnv)
	return true, r.writeEnv(env)
}

// forgetExpired removes the saved tokens when they belong to the expired session.
// Tokens saved by a later login are left alone.
func (r *Runner) forgetExpired(expired session.Session) error {
	env, err := r.readEnv()
	if err != nil {
		return err
	}
	if env[accessTokenEnv] != expired.AccessToken && env[refreshTokenEnv] != expired.RefreshToken {
		return nil
	}
	removed, err := r.forgetTokens()
	if removed {
		r.logger.Info("removed expired tokens", "path", r.envPath)
	}
	return err
}

func (r *Runner) readEnv() (map[string]string, error) {
	env, err := godotenv.Read(r.envPath)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.envPath, err)
	}
	return env, nil
}

func (r *Runner) writeEnv(env map[string]string) error {
	if err := godotenv.Write(env, r.envPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.envPath, err)
	}
	if err := os.Chmod(r.envPath, 0600); err != nil {
		return fmt.Errorf("failed to restrict %s: %w", r.envPath, err)
	}
	return nil
}
