package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save inserts a run, or replaces it when a row with the same ID exists.
func (r *RunRepository) Save(ctx context.Context, run *models.RunRecord) error {
	query := `
		INSERT INTO runs (id, mode, state, topic_hint, content_type, body, hashtags,
		                  approved, reason, external_post_id, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			body = EXCLUDED.body,
			hashtags = EXCLUDED.hashtags,
			approved = EXCLUDED.approved,
			reason = EXCLUDED.reason,
			external_post_id = EXCLUDED.external_post_id,
			error = EXCLUDED.error,
			finished_at = EXCLUDED.finished_at
	`

	hashtags := run.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}

	_, err := r.db.Pool.Exec(ctx, query,
		run.ID,
		run.Mode,
		string(run.State),
		run.TopicHint,
		string(run.ContentType),
		run.Body,
		hashtags,
		run.Approved,
		run.Reason,
		run.ExternalPostID,
		run.Error,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetByID retrieves a run by its ID
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.RunRecord, error) {
	query := `
		SELECT id, mode, state, topic_hint, content_type, body, hashtags,
		       approved, reason, external_post_id, error, started_at, finished_at
		FROM runs
		WHERE id = $1
	`

	run, err := scanRun(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("run not found: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*models.RunRecord, error) {
	query := `
		SELECT id, mode, state, topic_hint, content_type, body, hashtags,
		       approved, reason, external_post_id, error, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func scanRun(row pgx.Row) (*models.RunRecord, error) {
	run := &models.RunRecord{}
	var state, contentType string

	err := row.Scan(
		&run.ID,
		&run.Mode,
		&state,
		&run.TopicHint,
		&contentType,
		&run.Body,
		&run.Hashtags,
		&run.Approved,
		&run.Reason,
		&run.ExternalPostID,
		&run.Error,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.State = models.RunState(state)
	run.ContentType = models.ContentType(contentType)
	return run, nil
}
