package database

import (
	"context"
	"time"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

// PostgresStore implements Store on top of the pgx pool.
type PostgresStore struct {
	db      *DB
	runs    *RunRepository
	actions *ActionRepository
}

func NewPostgresStore(db *DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		runs:    NewRunRepository(db),
		actions: NewActionRepository(db),
	}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.CreateTables(ctx)
}

func (s *PostgresStore) SaveRun(ctx context.Context, run *models.RunRecord) error {
	return s.runs.Save(ctx, run)
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error) {
	return s.runs.List(ctx, limit)
}

func (s *PostgresStore) SaveAction(ctx context.Context, action *models.ConnectionAction) error {
	return s.actions.Create(ctx, action)
}

func (s *PostgresStore) ListActions(ctx context.Context, limit int) ([]*models.ConnectionAction, error) {
	return s.actions.List(ctx, limit)
}

func (s *PostgresStore) CountSuccessfulActionsSince(ctx context.Context, action string, since time.Time) (int, error) {
	return s.actions.CountSuccessfulSince(ctx, action, since)
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
