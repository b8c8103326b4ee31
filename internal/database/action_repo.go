package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

type ActionRepository struct {
	db *DB
}

func NewActionRepository(db *DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// Create inserts a new connection action
func (r *ActionRepository) Create(ctx context.Context, action *models.ConnectionAction) error {
	if action.ID == "" {
		action.ID = uuid.New().String()
	}

	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO connection_actions (id, profile_url, name, headline, action, success, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		action.ID,
		action.ProfileURL,
		action.Name,
		action.Headline,
		action.Action,
		action.Success,
		action.Error,
		action.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create connection action: %w", err)
	}

	return nil
}

// List returns the most recent actions first.
func (r *ActionRepository) List(ctx context.Context, limit int) ([]*models.ConnectionAction, error) {
	query := `
		SELECT id, profile_url, name, headline, action, success, error, created_at
		FROM connection_actions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query connection actions: %w", err)
	}
	defer rows.Close()

	var actions []*models.ConnectionAction
	for rows.Next() {
		action := &models.ConnectionAction{}
		err := rows.Scan(
			&action.ID,
			&action.ProfileURL,
			&action.Name,
			&action.Headline,
			&action.Action,
			&action.Success,
			&action.Error,
			&action.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection action: %w", err)
		}
		actions = append(actions, action)
	}

	return actions, rows.Err()
}

// CountSuccessfulSince counts successful actions of one kind since a moment.
func (r *ActionRepository) CountSuccessfulSince(ctx context.Context, action string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM connection_actions
		WHERE action = $1 AND success AND created_at >= $2
	`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, action, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count connection actions: %w", err)
	}
	return count, nil
}
