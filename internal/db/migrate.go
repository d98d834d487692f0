package db

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS brands (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		pass_hash  BLOB NOT NULL,
		brand_id   TEXT NOT NULL REFERENCES brands(id),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		brand_id   TEXT NOT NULL REFERENCES brands(id),
		vendor_id  TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		email           TEXT,
		profile_picture TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS survey_definitions (
		id               TEXT PRIMARY KEY,
		campaign_id      TEXT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
		brand_id         TEXT NOT NULL,
		vendor_id        TEXT,
		question         TEXT NOT NULL,
		question_options TEXT NOT NULL,
		option_tally     TEXT NOT NULL,
		created_at       TIMESTAMP NOT NULL,
		UNIQUE(campaign_id, brand_id, question)
	)`,
	`CREATE TABLE IF NOT EXISTS survey_responses (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id         TEXT NOT NULL REFERENCES users(id),
		campaign_id     TEXT NOT NULL,
		question        TEXT NOT NULL,
		selected_option TEXT NOT NULL,
		correct_option  TEXT,
		time_spent      REAL NOT NULL DEFAULT 0,
		submitted_at    TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_responses_user ON survey_responses(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_responses_campaign ON survey_responses(campaign_id)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		at     TIMESTAMP NOT NULL,
		actor  TEXT,
		action TEXT NOT NULL,
		target TEXT,
		note   TEXT
	)`,
}

// Migrate creates the schema. Statements are idempotent so running it on
// every boot is safe.
func Migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
