package database

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/linkedin-autoposter/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout is fixed width so stored timestamps sort and compare as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Runs ---

func (s *SQLiteStore) SaveRun(ctx context.Context, run *models.RunRecord) error {
	hashtags := run.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	tagsJSON, err := json.Marshal(hashtags)
	if err != nil {
		return fmt.Errorf("marshal hashtags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, mode, state, topic_hint, content_type, body, hashtags,
			approved, reason, external_post_id, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, string(run.State), run.TopicHint, string(run.ContentType), run.Body,
		string(tagsJSON), boolToInt(run.Approved), run.Reason, run.ExternalPostID, run.Error,
		formatTime(run.StartedAt), formatTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, state, topic_hint, content_type, body, hashtags,
			approved, reason, external_post_id, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*models.RunRecord
	for rows.Next() {
		run := &models.RunRecord{}
		var state, contentType, tagsJSON, started, finished string
		var approved int
		if err := rows.Scan(&run.ID, &run.Mode, &state, &run.TopicHint, &contentType, &run.Body,
			&tagsJSON, &approved, &run.Reason, &run.ExternalPostID, &run.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &run.Hashtags); err != nil {
			return nil, fmt.Errorf("unmarshal hashtags for run %s: %w", run.ID, err)
		}
		run.State = models.RunState(state)
		run.ContentType = models.ContentType(contentType)
		run.Approved = approved != 0
		if run.StartedAt, err = parseTime(started); err != nil {
			return nil, fmt.Errorf("parse started_at for run %s: %w", run.ID, err)
		}
		if run.FinishedAt, err = parseTime(finished); err != nil {
			return nil, fmt.Errorf("parse finished_at for run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// --- Connection actions ---

func (s *SQLiteStore) SaveAction(ctx context.Context, action *models.ConnectionAction) error {
	if action.ID == "" {
		action.ID = uuid.New().String()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO connection_actions (id, profile_url, name, headline, action, success, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		action.ID, action.ProfileURL, action.Name, action.Headline, action.Action,
		boolToInt(action.Success), action.Error, formatTime(action.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save action: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListActions(ctx context.Context, limit int) ([]*models.ConnectionAction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile_url, name, headline, action, success, error, created_at
		 FROM connection_actions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var actions []*models.ConnectionAction
	for rows.Next() {
		action := &models.ConnectionAction{}
		var success int
		var created string
		if err := rows.Scan(&action.ID, &action.ProfileURL, &action.Name, &action.Headline,
			&action.Action, &success, &action.Error, &created); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		action.Success = success != 0
		if action.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("parse created_at for action %s: %w", action.ID, err)
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

func (s *SQLiteStore) CountSuccessfulActionsSince(ctx context.Context, action string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM connection_actions WHERE action = ? AND success = 1 AND created_at >= ?`,
		action, formatTime(since)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return count, nil
}
