package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
)

// TermRepository handles database operations for academic terms
type TermRepository struct {
	db *pgxpool.Pool
}

// NewTermRepository creates a new term repository
func NewTermRepository(db *pgxpool.Pool) *TermRepository {
	return &TermRepository{
		db: db,
	}
}

// Upsert inserts a term or refreshes an existing one keyed by the SIS id.
// Imports run repeatedly; the newest feed record wins.
func (r *TermRepository) Upsert(ctx context.Context, term *models.Term) error {
	query := `
		INSERT INTO terms (sis_term_id, name, start_date, is_active, raw)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sis_term_id) DO UPDATE
		SET name = EXCLUDED.name,
		    start_date = EXCLUDED.start_date,
		    is_active = EXCLUDED.is_active,
		    raw = EXCLUDED.raw
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		term.SISTermID, term.Name, term.StartDate, term.IsActive, term.Raw,
	).Scan(&term.ID)
	if err != nil {
		return fmt.Errorf("error upserting term: %w", err)
	}

	return nil
}

// GetByID retrieves a term by ID
func (r *TermRepository) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	query := `
		SELECT id, sis_term_id, name, start_date, is_active, raw
		FROM terms
		WHERE id = $1
	`

	var term models.Term
	err := r.db.QueryRow(ctx, query, id).Scan(
		&term.ID,
		&term.SISTermID,
		&term.Name,
		&term.StartDate,
		&term.IsActive,
		&term.Raw,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTermNotFound
		}
		return nil, fmt.Errorf("error retrieving term: %w", err)
	}

	return &term, nil
}

// GetAll retrieves all terms in insertion order, which preserves the order
// of the SIS feed that produced them. Default-term resolution depends on
// feed order for its tie-breaks.
func (r *TermRepository) GetAll(ctx context.Context) ([]*models.Term, error) {
	query := `
		SELECT id, sis_term_id, name, start_date, is_active, raw
		FROM terms
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving terms: %w", err)
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		var term models.Term
		if err := rows.Scan(
			&term.ID,
			&term.SISTermID,
			&term.Name,
			&term.StartDate,
			&term.IsActive,
			&term.Raw,
		); err != nil {
			return nil, err
		}
		terms = append(terms, &term)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return terms, nil
}
