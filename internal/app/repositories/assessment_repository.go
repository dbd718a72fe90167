package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusmetrics/ploboard/internal/app/models"
)

// AssessmentRepository reads immutable section assessment snapshots
type AssessmentRepository struct {
	db *pgxpool.Pool
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{
		db: db,
	}
}

// ListByCourseOutcomes retrieves the section snapshots for a set of CLOs in
// one term, grouped by course outcome id. CLOs without snapshots simply have
// no key in the result.
func (r *AssessmentRepository) ListByCourseOutcomes(ctx context.Context, courseOutcomeIDs []int64, termID int64) (map[int64][]*models.SectionAssessment, error) {
	result := make(map[int64][]*models.SectionAssessment, len(courseOutcomeIDs))
	if len(courseOutcomeIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT sa.id, sa.course_outcome_id, sa.term_id, sa.section_label, t.name,
		       sa.instructor_name, sa.assessment_tool, sa.offering_id,
		       sa.students_assessed, sa.students_passed
		FROM section_assessments sa
		JOIN terms t ON t.id = sa.term_id
		WHERE sa.course_outcome_id = ANY($1) AND sa.term_id = $2
		ORDER BY sa.section_label
	`

	rows, err := r.db.Query(ctx, query, courseOutcomeIDs, termID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving section assessments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sa models.SectionAssessment
		if err := rows.Scan(
			&sa.ID,
			&sa.CourseOutcomeID,
			&sa.TermID,
			&sa.SectionLabel,
			&sa.TermLabel,
			&sa.InstructorName,
			&sa.AssessmentTool,
			&sa.OfferingID,
			&sa.StudentsAssessed,
			&sa.StudentsPassed,
		); err != nil {
			return nil, err
		}
		result[sa.CourseOutcomeID] = append(result[sa.CourseOutcomeID], &sa)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Create inserts a section snapshot. Snapshots are write-once; corrections
// come in as new rows for a different section label, never as updates.
func (r *AssessmentRepository) Create(ctx context.Context, sa *models.SectionAssessment) error {
	query := `
		INSERT INTO section_assessments
			(course_outcome_id, term_id, section_label, instructor_name,
			 assessment_tool, offering_id, students_assessed, students_passed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		sa.CourseOutcomeID, sa.TermID, sa.SectionLabel, sa.InstructorName,
		sa.AssessmentTool, sa.OfferingID, sa.StudentsAssessed, sa.StudentsPassed,
	).Scan(&sa.ID)
	if err != nil {
		return fmt.Errorf("error creating section assessment: %w", err)
	}

	return nil
}
