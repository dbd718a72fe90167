package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
	"github.com/campusmetrics/ploboard/internal/pkg/dberrors"
)

// CourseRepository handles database operations for the course catalog.
// The catalog is owned by the wider administration system; this service
// writes it only during seeding and catalog sync.
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// Create inserts a course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (program_id, number, title)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, course.ProgramID, course.Number, course.Title).Scan(&course.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// CreateOutcome inserts a course outcome
func (r *CourseRepository) CreateOutcome(ctx context.Context, outcome *models.CourseOutcome) error {
	query := `
		INSERT INTO course_outcomes (course_id, number, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, outcome.CourseID, outcome.Number, outcome.Description).Scan(&outcome.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating course outcome: %w", err)
	}

	return nil
}

// ListByProgram retrieves a program's courses ordered by number
func (r *CourseRepository) ListByProgram(ctx context.Context, programID int64) ([]*models.Course, error) {
	query := `
		SELECT id, program_id, number, title
		FROM courses
		WHERE program_id = $1
		ORDER BY number
	`

	rows, err := r.db.Query(ctx, query, programID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.ProgramID, &course.Number, &course.Title); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}
