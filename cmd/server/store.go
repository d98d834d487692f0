package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boardpulse/boardpulse/internal/api"
	dbstore "github.com/boardpulse/boardpulse/internal/db"
)

// openStore selects the persistence backend: SQLite when
// BOARDPULSE_SQLITE_PATH is set, an in-memory store otherwise.
func openStore() (api.Store, error) {
	path := os.Getenv("BOARDPULSE_SQLITE_PATH")
	if path == "" {
		return api.NewMemoryStore(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(path))
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := dbstore.Migrate(sqliteDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return dbstore.NewStore(sqliteDB)
}
