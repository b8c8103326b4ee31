package database

import (
	"context"
	"fmt"
)

// CreateTables creates all necessary database tables
func (db *DB) CreateTables(ctx context.Context) error {
	db.log.Debug("Creating database tables...")

	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id VARCHAR(26) PRIMARY KEY,
		mode VARCHAR(20) NOT NULL,
		state VARCHAR(20) NOT NULL,
		topic_hint TEXT,
		content_type VARCHAR(50),
		body TEXT,
		hashtags TEXT[] NOT NULL DEFAULT '{}',
		approved BOOLEAN NOT NULL DEFAULT FALSE,
		reason TEXT,
		external_post_id TEXT,
		error TEXT,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_state ON runs(state);
	`

	actionsTable := `
	CREATE TABLE IF NOT EXISTS connection_actions (
		id UUID PRIMARY KEY,
		profile_url TEXT NOT NULL,
		name TEXT,
		headline TEXT,
		action VARCHAR(20) NOT NULL,
		success BOOLEAN NOT NULL,
		error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_actions_created ON connection_actions(created_at DESC);
	`

	for _, table := range []string{runsTable, actionsTable} {
		if _, err := db.Pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	db.log.Debug("✅ All tables created successfully")
	return nil
}
