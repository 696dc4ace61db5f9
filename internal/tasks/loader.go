package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songsmith/internal/models"
	"github.com/desertthunder/songsmith/internal/session"
	"github.com/desertthunder/songsmith/internal/shared"
)

// DefaultRedirectDelay is how long a session-expired message is shown before navigating home.
const DefaultRedirectDelay = 3 * time.Second

// Fetcher reads the authorized resources behind the dashboard.
type Fetcher interface {
	UserProfile(ctx context.Context, accessToken string) (*models.Profile, error)
	MusicTaste(ctx context.Context, accessToken string) (*models.Snapshot, error)
}

// Refresher renews the stored access token.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// scheduleFunc runs f after d and returns a function that cancels it.
type scheduleFunc func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// LoaderOpts holds the dependencies of a [Loader].
type LoaderOpts struct {
	Store         session.Store
	Fetcher       Fetcher
	Refresher     Refresher
	Navigator     session.Navigator
	RedirectDelay time.Duration // zero uses DefaultRedirectDelay
	Logger        *log.Logger
}

// Loader fetches the profile and then the taste snapshot for one dashboard mount.
//
// Every call to [Loader.Load] starts a new generation and cancels the previous one. Only the
// current generation may publish, so a late response never replaces a newer state.
type Loader struct {
	store         session.Store
	fetcher       Fetcher
	refresher     Refresher
	navigator     session.Navigator
	redirectDelay time.Duration
	logger        *log.Logger
	schedule      scheduleFunc

	mu           sync.Mutex
	generation   uint64
	cancel       context.CancelFunc
	current      LoadState
	subscribers  []chan LoadState
	stopRedirect func() bool
}

func NewLoader(opts LoaderOpts) *Loader {
	delay := opts.RedirectDelay
	if delay <= 0 {
		delay = DefaultRedirectDelay
	}

	navigator := opts.Navigator
	if navigator == nil {
		navigator = session.NavigatorFunc(func(session.Navigation) {})
	}

	return &Loader{
		store:         opts.Store,
		fetcher:       opts.Fetcher,
		refresher:     opts.Refresher,
		navigator:     navigator,
		redirectDelay: delay,
		logger:        opts.Logger,
		schedule:      afterFunc,
	}
}

// Current returns the most recently published state.
func (l *Loader) Current() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Subscribe returns a channel carrying published states.
//
// The channel holds only the latest state: a slow reader skips intermediate ones but always sees the
// newest. It is closed by [Loader.Unmount].
func (l *Loader) Subscribe() <-chan LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan LoadState, 1)
	if l.generation > 0 {
		ch <- l.current
	}
	l.subscribers = append(l.subscribers, ch)
	return ch
}

// Unmount abandons the in-flight load, stops a pending redirect and closes subscriptions.
func (l *Loader) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++
	l.stopLocked()
	for _, ch := range l.subscribers {
		close(ch)
	}
	l.subscribers = nil
}

// stopLocked cancels the in-flight load and any pending redirect.
func (l *Loader) stopLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.stopRedirect != nil {
		l.stopRedirect()
		l.stopRedirect = nil
	}
}

// publishLocked records state as current and offers it to subscribers without blocking.
func (l *Loader) publishLocked(state LoadState) {
	l.current = state
	for _, ch := range l.subscribers {
		select {
		case ch <- state:
		default:
			// Replace the unread state with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}

func (l *Loader) begin(parent context.Context) (context.Context, uint64, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++
	l.stopLocked()

	ctx, cancel := context.WithCancel(parent)
	l.cancel = cancel

	id := shared.GenerateID()
	l.publishLocked(loadingState(l.generation, id))
	return ctx, l.generation, id
}

// finish publishes state if its generation is still current.
func (l *Loader) finish(state LoadState) LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()

	if state.Generation != l.generation {
		l.logger.Debug("discarding stale load", "load_id", state.LoadID, "generation", state.Generation, "status", state.Status)
		return state
	}

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.publishLocked(state)
	return state
}

// expire ends the session: tokens are cleared and a redirect home is scheduled.
// A superseded load has no side effects.
func (l *Loader) expire(gen uint64, id string, cause error) LoadState {
	state := failedState(gen, id, SessionExpired, cause)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		l.logger.Debug("discarding stale session expiry", "load_id", id, "generation", gen)
		return state
	}

	if err := l.store.Clear(); err != nil {
		l.logger.Error("failed to clear session", "load_id", id, "error", err)
	}

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.publishLocked(state)

	l.logger.Warn("session expired, redirecting home", "load_id", id, "delay", l.redirectDelay, "error", cause)
	l.stopRedirect = l.schedule(l.redirectDelay, func() { l.redirectHome(gen) })
	return state
}

func (l *Loader) redirectHome(gen uint64) {
	l.mu.Lock()
	if gen != l.generation {
		l.mu.Unlock()
		return
	}
	l.stopRedirect = nil
	l.mu.Unlock()

	l.navigator.Navigate(session.Navigation{Route: session.RouteHome})
}

// Load runs one dashboard load and returns its final state.
//
// The steps are:
//  1. publish [Loading] under a new generation
//  2. read the access token; none is [NoSession]
//  3. fetch the profile; a 401 triggers one refresh and a single retry of this step
//  4. fetch the taste snapshot; any failure, 401 included, is [TasteFetchError]
//  5. publish [Ready]
//
// A failed refresh, or a second 401 on the profile, clears the session and schedules a redirect home.
// The returned state is always the load's own; it is only published while the load is current.
func (l *Loader) Load(ctx context.Context) LoadState {
	ctx, gen, id := l.begin(ctx)
	logger := shared.WithLogger(l.logger, "load_id", id, "generation", gen)
	logger.Debug("load started")

	state := l.run(ctx, logger, gen, id, false)
	logger.Info("load finished", "status", state.Status, "kind", state.Kind)
	return state
}

func (l *Loader) run(ctx context.Context, logger *log.Logger, gen uint64, id string, retried bool) LoadState {
	sess, err := l.store.Get()
	if err != nil {
		logger.Warn("session lookup failed", "error", err)
		return l.finish(failedState(gen, id, NoSession, errors.Join(shared.ErrNoSession, err)))
	}
	if !sess.Authenticated() {
		return l.finish(failedState(gen, id, NoSession, shared.ErrNoSession))
	}

	profile, err := l.fetcher.UserProfile(ctx, sess.AccessToken)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrAuthExpired) && retried:
		return l.expire(gen, id, errors.Join(shared.ErrSessionExpired, err))
	case errors.Is(err, shared.ErrAuthExpired):
		logger.Info("access token rejected, refreshing")
		if _, rerr := l.refresher.Refresh(ctx); rerr != nil {
			if ctx.Err() != nil {
				// Abandoned mid-refresh; the session is left as is.
				return l.finish(failedState(gen, id, ProfileFetchError, rerr))
			}
			return l.expire(gen, id, errors.Join(shared.ErrSessionExpired, rerr))
		}
		return l.run(ctx, logger, gen, id, true)
	default:
		logger.Error("profile fetch failed", "error", err)
		return l.finish(failedState(gen, id, ProfileFetchError, err))
	}

	taste, err := l.fetcher.MusicTaste(ctx, sess.AccessToken)
	if err != nil {
		logger.Error("music taste fetch failed", "error", err)
		return l.finish(failedState(gen, id, TasteFetchError, err))
	}

	return l.finish(readyState(gen, id, profile, taste))
}
