package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/songsmith/internal/shared"
)

// SQLStore is a [Store] backed by the session_storage table.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an already migrated database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenSQLStore opens a private in-memory database, migrates it and returns a store over it.
//
// The data is gone once [SQLStore.Close] is called or the process exits.
func OpenSQLStore() (*SQLStore, error) {
	db, err := shared.NewDatabase(shared.MemoryDSN)
	if err != nil {
		return nil, err
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare session storage: %w", err)
	}

	return NewSQLStore(db), nil
}

func (s *SQLStore) Get() (Session, error) {
	query := `SELECT key, value FROM session_storage WHERE key IN (?, ?)`

	rows, err := s.db.Query(query, AccessTokenKey, RefreshTokenKey)
	if err != nil {
		return Session{}, fmt.Errorf("failed to query session: %w", err)
	}
	defer rows.Close()

	var sess Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Session{}, fmt.Errorf("failed to scan session: %w", err)
		}

		switch key {
		case AccessTokenKey:
			sess.AccessToken = value
		case RefreshTokenKey:
			sess.RefreshToken = value
		}
	}

	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	return sess, nil
}

func (s *SQLStore) Set(accessToken, refreshToken string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO session_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	now := time.Now()
	for key, value := range map[string]string{AccessTokenKey: accessToken, RefreshTokenKey: refreshToken} {
		if value == "" {
			continue
		}
		if _, err := tx.Exec(query, key, value, now); err != nil {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

func (s *SQLStore) Clear() error {
	query := `DELETE FROM session_storage WHERE key IN (?, ?)`
	if _, err := s.db.Exec(query, AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close releases the database; the stored tokens are discarded with it.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
