package database

import (
	"context"
	"errors"
	"time"

	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

// ErrNotConfigured is returned by Open when neither DATABASE_URL nor
// SQLITE_PATH is set.
var ErrNotConfigured = errors.New("no history store configured")

// Store keeps pipeline run history and the automator's action log.
type Store interface {
	SaveRun(ctx context.Context, run *models.RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error)

	SaveAction(ctx context.Context, action *models.ConnectionAction) error
	ListActions(ctx context.Context, limit int) ([]*models.ConnectionAction, error)
	// CountSuccessfulActionsSince counts successful actions of the given kind
	// created at or after since.
	CountSuccessfulActionsSince(ctx context.Context, action string, since time.Time) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open picks Postgres when databaseURL is set, otherwise SQLite at sqlitePath,
// and migrates the schema.
func Open(ctx context.Context, databaseURL, sqlitePath string, log logging.Logger) (Store, error) {
	var (
		store Store
		err   error
	)
	switch {
	case databaseURL != "":
		var db *DB
		db, err = NewDB(ctx, databaseURL, log)
		if err == nil {
			store = NewPostgresStore(db)
		}
	case sqlitePath != "":
		store, err = NewSQLiteStore(sqlitePath)
	default:
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
