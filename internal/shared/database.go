package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory database that lives as long as its single connection.
const MemoryDSN = ":memory:"

// NewDatabase opens and pings the SQLite database at dsn.
//
// An in-memory database is pinned to one connection that never expires, since each new connection
// would see its own empty database and the session would silently vanish.
func NewDatabase(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dsn == MemoryDSN {
		ConfigureDatabase(db, 1, 1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database %q: %w", dsn, err)
	}
	return db, nil
}

// ConfigureDatabase bounds the connection pool.
func ConfigureDatabase(db *sql.DB, maxOpen, maxIdle int) {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
}
