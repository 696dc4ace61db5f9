package session

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/desertthunder/songsmith/internal/shared"
)

const refreshKey = "refresh"

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// Refresher performs single-flight token refreshes against the backend.
type Refresher struct {
	store   Store
	backend TokenRefresher
	logger  *log.Logger
	group   singleflight.Group
}

func NewRefresher(store Store, backend TokenRefresher, logger *log.Logger) *Refresher {
	return &Refresher{store: store, backend: backend, logger: logger}
}

// Refresh obtains a new access token and stores it, keeping the refresh token.
//
// Every error matches [shared.ErrRefreshFailed]; a missing refresh token additionally matches
// [shared.ErrNoRefreshToken] and never reaches the network. The store is not modified on failure.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	sess, err := r.store.Get()
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}
	if sess.RefreshToken == "" {
		return "", fmt.Errorf("%w: %w", shared.ErrRefreshFailed, shared.ErrNoRefreshToken)
	}

	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(refreshKey, func() (any, error) {
		return r.refresh(detached, sess.RefreshToken)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			r.logger.Debug("joined in-flight token refresh")
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", shared.ErrRefreshFailed, ctx.Err())
	}
}

func (r *Refresher) refresh(ctx context.Context, refreshToken string) (string, error) {
	r.logger.Info("refreshing access token")

	accessToken, err := r.backend.RefreshToken(ctx, refreshToken)
	if err != nil {
		r.logger.Warn("token refresh failed", "error", err)
		return "", fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}
	if accessToken == "" {
		return "", fmt.Errorf("%w: empty access token", shared.ErrRefreshFailed)
	}

	// A logout or expiry during the round trip wins over the late token.
	current, err := r.store.Get()
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}
	if current.RefreshToken != refreshToken {
		r.logger.Warn("session changed during token refresh, discarding token")
		return "", fmt.Errorf("%w: session changed during refresh", shared.ErrRefreshFailed)
	}

	if err := r.store.Set(accessToken, ""); err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	r.logger.Info("access token refreshed")
	return accessToken, nil
}
