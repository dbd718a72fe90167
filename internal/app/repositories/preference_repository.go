package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreferenceRepository stores per-user key/value preference slots
type PreferenceRepository struct {
	db *pgxpool.Pool
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{
		db: db,
	}
}

// Get reads one slot; a missing slot is "" and not an error
func (r *PreferenceRepository) Get(ctx context.Context, userID int64, key string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx,
		`SELECT value FROM user_preferences WHERE user_id = $1 AND key = $2`,
		userID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error reading preference: %w", err)
	}
	return value, nil
}

// Set writes one slot, overwriting any previous value
func (r *PreferenceRepository) Set(ctx context.Context, userID int64, key, value string) error {
	query := `
		INSERT INTO user_preferences (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value
	`

	_, err := r.db.Exec(ctx, query, userID, key, value)
	if err != nil {
		return fmt.Errorf("error writing preference: %w", err)
	}
	return nil
}
