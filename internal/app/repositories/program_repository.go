package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
	"github.com/campusmetrics/ploboard/internal/pkg/dberrors"
)

// ProgramRepository handles database operations for programs
type ProgramRepository struct {
	db *pgxpool.Pool
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{
		db: db,
	}
}

// Create creates a new program
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	query := `
		INSERT INTO programs (code, name, assessment_display_mode, pass_threshold)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		program.Code, program.Name, program.DisplayMode, program.PassThreshold,
	).Scan(&program.ID, &program.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrProgramAlreadyExists
		}
		return fmt.Errorf("error creating program: %w", err)
	}

	return nil
}

// GetByID retrieves a program by ID
func (r *ProgramRepository) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	query := `
		SELECT id, code, name, assessment_display_mode, pass_threshold, created_at
		FROM programs
		WHERE id = $1
	`

	var program models.Program
	err := r.db.QueryRow(ctx, query, id).Scan(
		&program.ID,
		&program.Code,
		&program.Name,
		&program.DisplayMode,
		&program.PassThreshold,
		&program.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		return nil, fmt.Errorf("error retrieving program: %w", err)
	}

	return &program, nil
}

// GetAll retrieves programs ordered by code, with total count for pagination
func (r *ProgramRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Program, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM programs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting programs: %w", err)
	}

	query := `
		SELECT id, code, name, assessment_display_mode, pass_threshold, created_at
		FROM programs
		ORDER BY code
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving programs: %w", err)
	}
	defer rows.Close()

	var programs []*models.Program
	for rows.Next() {
		var program models.Program
		if err := rows.Scan(
			&program.ID,
			&program.Code,
			&program.Name,
			&program.DisplayMode,
			&program.PassThreshold,
			&program.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		programs = append(programs, &program)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return programs, total, nil
}

// Update writes the mutable fields of a program
func (r *ProgramRepository) Update(ctx context.Context, program *models.Program) error {
	query := `
		UPDATE programs
		SET name = $1, assessment_display_mode = $2, pass_threshold = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		program.Name, program.DisplayMode, program.PassThreshold, program.ID)
	if err != nil {
		return fmt.Errorf("error updating program: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgramNotFound
	}

	return nil
}
