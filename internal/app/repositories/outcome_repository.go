package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
	"github.com/campusmetrics/ploboard/internal/pkg/dberrors"
)

// OutcomeRepository handles database operations for program outcomes (PLOs)
// and read access to course outcomes (CLOs)
type OutcomeRepository struct {
	db *pgxpool.Pool
}

// NewOutcomeRepository creates a new outcome repository
func NewOutcomeRepository(db *pgxpool.Pool) *OutcomeRepository {
	return &OutcomeRepository{
		db: db,
	}
}

// CreateProgramOutcome creates a new PLO
func (r *OutcomeRepository) CreateProgramOutcome(ctx context.Context, outcome *models.ProgramOutcome) error {
	query := `
		INSERT INTO program_outcomes (program_id, number, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		outcome.ProgramID, outcome.Number, outcome.Description,
	).Scan(&outcome.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrOutcomeNumberTaken
		}
		return fmt.Errorf("error creating program outcome: %w", err)
	}

	return nil
}

// GetProgramOutcomeByID retrieves a PLO by ID
func (r *OutcomeRepository) GetProgramOutcomeByID(ctx context.Context, id int64) (*models.ProgramOutcome, error) {
	query := `
		SELECT id, program_id, number, description
		FROM program_outcomes
		WHERE id = $1
	`

	var outcome models.ProgramOutcome
	err := r.db.QueryRow(ctx, query, id).Scan(
		&outcome.ID,
		&outcome.ProgramID,
		&outcome.Number,
		&outcome.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOutcomeNotFound
		}
		return nil, fmt.Errorf("error retrieving program outcome: %w", err)
	}

	return &outcome, nil
}

// ListProgramOutcomes retrieves a program's PLOs ordered by number
func (r *OutcomeRepository) ListProgramOutcomes(ctx context.Context, programID int64) ([]*models.ProgramOutcome, error) {
	query := `
		SELECT id, program_id, number, description
		FROM program_outcomes
		WHERE program_id = $1
		ORDER BY number
	`

	rows, err := r.db.Query(ctx, query, programID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving program outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*models.ProgramOutcome
	for rows.Next() {
		var outcome models.ProgramOutcome
		if err := rows.Scan(
			&outcome.ID,
			&outcome.ProgramID,
			&outcome.Number,
			&outcome.Description,
		); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, &outcome)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

// UpdateProgramOutcome updates a PLO's number and description
func (r *OutcomeRepository) UpdateProgramOutcome(ctx context.Context, outcome *models.ProgramOutcome) error {
	query := `
		UPDATE program_outcomes
		SET number = $1, description = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, outcome.Number, outcome.Description, outcome.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrOutcomeNumberTaken
		}
		return fmt.Errorf("error updating program outcome: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrOutcomeNotFound
	}

	return nil
}

// DeleteProgramOutcome deletes a PLO. The delete is rejected while any
// mapping entry still references the outcome; the foreign key enforces it.
func (r *OutcomeRepository) DeleteProgramOutcome(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM program_outcomes WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrOutcomeInUse
		}
		return fmt.Errorf("error deleting program outcome: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrOutcomeNotFound
	}

	return nil
}

// GetCourseOutcomeByID retrieves a CLO by ID, with its course number joined
func (r *OutcomeRepository) GetCourseOutcomeByID(ctx context.Context, id int64) (*models.CourseOutcome, error) {
	query := `
		SELECT co.id, co.course_id, co.number, co.description, c.number, c.program_id
		FROM course_outcomes co
		JOIN courses c ON c.id = co.course_id
		WHERE co.id = $1
	`

	var outcome models.CourseOutcome
	err := r.db.QueryRow(ctx, query, id).Scan(
		&outcome.ID,
		&outcome.CourseID,
		&outcome.Number,
		&outcome.Description,
		&outcome.CourseNumber,
		&outcome.ProgramID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseOutcomeNotFound
		}
		return nil, fmt.Errorf("error retrieving course outcome: %w", err)
	}

	return &outcome, nil
}

// ListCourseOutcomesByIDs retrieves CLOs by id set, keyed by id
func (r *OutcomeRepository) ListCourseOutcomesByIDs(ctx context.Context, ids []int64) (map[int64]*models.CourseOutcome, error) {
	result := make(map[int64]*models.CourseOutcome, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT co.id, co.course_id, co.number, co.description, c.number, c.program_id
		FROM course_outcomes co
		JOIN courses c ON c.id = co.course_id
		WHERE co.id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course outcomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome models.CourseOutcome
		if err := rows.Scan(
			&outcome.ID,
			&outcome.CourseID,
			&outcome.Number,
			&outcome.Description,
			&outcome.CourseNumber,
			&outcome.ProgramID,
		); err != nil {
			return nil, err
		}
		result[outcome.ID] = &outcome
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// ListUnmappedCourseOutcomes retrieves the CLOs of a program's courses that
// are not present in the given mapping. A nil mappingID means no mapping
// exists yet, so every CLO is unmapped.
func (r *OutcomeRepository) ListUnmappedCourseOutcomes(ctx context.Context, programID int64, mappingID *uuid.UUID) ([]*models.CourseOutcome, error) {
	query := `
		SELECT co.id, co.course_id, co.number, co.description, c.number, c.program_id
		FROM course_outcomes co
		JOIN courses c ON c.id = co.course_id
		WHERE c.program_id = $1
		  AND ($2::uuid IS NULL OR co.id NOT IN (
			SELECT course_outcome_id FROM mapping_entries WHERE mapping_id = $2
		  ))
		ORDER BY c.number, co.number
	`

	rows, err := r.db.Query(ctx, query, programID, mappingID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving unmapped course outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := make([]*models.CourseOutcome, 0)
	for rows.Next() {
		var outcome models.CourseOutcome
		if err := rows.Scan(
			&outcome.ID,
			&outcome.CourseID,
			&outcome.Number,
			&outcome.Description,
			&outcome.CourseNumber,
			&outcome.ProgramID,
		); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, &outcome)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}
