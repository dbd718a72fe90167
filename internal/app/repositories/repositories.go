package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every repository for dependency injection
type Repositories struct {
	UserRepository       *UserRepository
	ProgramRepository    *ProgramRepository
	TermRepository       *TermRepository
	CourseRepository     *CourseRepository
	OutcomeRepository    *OutcomeRepository
	AssessmentRepository *AssessmentRepository
	MappingRepository    *MappingRepository
	PreferenceRepository *PreferenceRepository
	AuditRepository      *AuditRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		ProgramRepository:    NewProgramRepository(db),
		TermRepository:       NewTermRepository(db),
		CourseRepository:     NewCourseRepository(db),
		OutcomeRepository:    NewOutcomeRepository(db),
		AssessmentRepository: NewAssessmentRepository(db),
		MappingRepository:    NewMappingRepository(db),
		PreferenceRepository: NewPreferenceRepository(db),
		AuditRepository:      NewAuditRepository(db),
	}
}
