package session

import (
	"fmt"
	"sync"

	"github.com/desertthunder/songsmith/internal/shared"
)

// Fixed storage keys for the two persisted values.
const (
	AccessTokenKey  = "spotifyAccessToken"
	RefreshTokenKey = "spotifyRefreshToken"
)

// Store drivers accepted by [NewStore].
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Session is a copy of the stored tokens. An empty string means the token is absent.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether an access token is present.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Store holds the session tokens for the lifetime of the process.
//
// Set only writes non-empty arguments. Clear removes both tokens.
type Store interface {
	Get() (Session, error)
	Set(accessToken, refreshToken string) error
	Clear() error
}

// NewStore builds the [Store] for the configured driver. The sqlite driver is the default.
func NewStore(driver string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite, "":
		return OpenSQLStore()
	default:
		return nil, fmt.Errorf("%w: unknown session driver %q", shared.ErrInvalidConfig, driver)
	}
}

// MemoryStore is a [Store] backed by a map.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Session{AccessToken: m.values[AccessTokenKey], RefreshToken: m.values[RefreshTokenKey]}, nil
}

func (m *MemoryStore) Set(accessToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if accessToken != "" {
		m.values[AccessTokenKey] = accessToken
	}
	if refreshToken != "" {
		m.values[RefreshTokenKey] = refreshToken
	}
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, AccessTokenKey)
	delete(m.values, RefreshTokenKey)
	return nil
}
