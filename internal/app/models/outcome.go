package models

// ProgramOutcome is a program-level competency statement (PLO).
// Number is unique and positive within a program.
type ProgramOutcome struct {
	ID          int64  `json:"id" db:"id"`
	ProgramID   int64  `json:"programId" db:"program_id"`
	Number      int    `json:"number" db:"number"`
	Description string `json:"description" db:"description"`
}

// CourseOutcome is a course-level competency statement (CLO). Course outcomes
// are owned by the course catalog; this subsystem only reads and links them.
type CourseOutcome struct {
	ID           int64  `json:"id" db:"id"`
	CourseID     int64  `json:"courseId" db:"course_id"`
	Number       int    `json:"number" db:"number"`
	Description  string `json:"description" db:"description"`
	CourseNumber string `json:"courseNumber,omitempty" db:"-"` // joined from courses
	ProgramID    int64  `json:"-" db:"-"`                      // joined from courses
}

// SectionAssessment is an immutable snapshot of one section's assessment of
// one course outcome in one term.
type SectionAssessment struct {
	ID               int64   `json:"id" db:"id"`
	CourseOutcomeID  int64   `json:"courseOutcomeId" db:"course_outcome_id"`
	TermID           int64   `json:"termId" db:"term_id"`
	SectionLabel     string  `json:"sectionLabel" db:"section_label"`
	TermLabel        string  `json:"termLabel,omitempty" db:"-"` // joined from terms
	InstructorName   *string `json:"instructorName,omitempty" db:"instructor_name"`
	AssessmentTool   *string `json:"assessmentTool,omitempty" db:"assessment_tool"`
	OfferingID       *int64  `json:"offeringId,omitempty" db:"offering_id"`
	StudentsAssessed int     `json:"studentsAssessed" db:"students_assessed"`
	StudentsPassed   int     `json:"studentsPassed" db:"students_passed"`
}
