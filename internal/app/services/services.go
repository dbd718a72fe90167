package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusmetrics/ploboard/internal/app/models"
)

// Services in this package hold no global state: each is constructed once
// per process with its stores injected, and every operation takes the full
// request context explicitly. The store interfaces below are satisfied by
// the concrete repositories and by in-memory fakes in tests.

// UserStore is the persistence surface the auth service needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

// ProgramStore is the persistence surface for programs
type ProgramStore interface {
	Create(ctx context.Context, program *models.Program) error
	GetByID(ctx context.Context, id int64) (*models.Program, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Program, int64, error)
	Update(ctx context.Context, program *models.Program) error
}

// TermStore is the persistence surface for academic terms
type TermStore interface {
	Upsert(ctx context.Context, term *models.Term) error
	GetByID(ctx context.Context, id int64) (*models.Term, error)
	GetAll(ctx context.Context) ([]*models.Term, error)
}

// OutcomeStore is the persistence surface for program and course outcomes
type OutcomeStore interface {
	CreateProgramOutcome(ctx context.Context, outcome *models.ProgramOutcome) error
	GetProgramOutcomeByID(ctx context.Context, id int64) (*models.ProgramOutcome, error)
	ListProgramOutcomes(ctx context.Context, programID int64) ([]*models.ProgramOutcome, error)
	UpdateProgramOutcome(ctx context.Context, outcome *models.ProgramOutcome) error
	DeleteProgramOutcome(ctx context.Context, id int64) error
	GetCourseOutcomeByID(ctx context.Context, id int64) (*models.CourseOutcome, error)
	ListCourseOutcomesByIDs(ctx context.Context, ids []int64) (map[int64]*models.CourseOutcome, error)
	ListUnmappedCourseOutcomes(ctx context.Context, programID int64, mappingID *uuid.UUID) ([]*models.CourseOutcome, error)
}

// MappingStore is the persistence surface for outcome mappings
type MappingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.OutcomeMapping, error)
	GetDraft(ctx context.Context, programID int64) (*models.OutcomeMapping, error)
	GetLatestPublished(ctx context.Context, programID int64) (*models.OutcomeMapping, error)
	EnsureDraft(ctx context.Context, programID int64) (*models.OutcomeMapping, error)
	ListEntries(ctx context.Context, mappingID uuid.UUID) ([]*models.MappingEntry, error)
	AddEntry(ctx context.Context, entry *models.MappingEntry) error
	RemoveEntry(ctx context.Context, entry *models.MappingEntry) error
	Publish(ctx context.Context, draftID uuid.UUID, baseVersion *int) (*models.OutcomeMapping, error)
	DeleteDraft(ctx context.Context, draftID uuid.UUID) error
}

// AssessmentStore reads section assessment snapshots
type AssessmentStore interface {
	ListByCourseOutcomes(ctx context.Context, courseOutcomeIDs []int64, termID int64) (map[int64][]*models.SectionAssessment, error)
}

// PreferenceStore reads and writes per-user preference slots
type PreferenceStore interface {
	Get(ctx context.Context, userID int64, key string) (string, error)
	Set(ctx context.Context, userID int64, key, value string) error
}

// AuditStore appends and reads audit events
type AuditStore interface {
	Record(ctx context.Context, event *models.AuditEvent) error
	ListRecent(ctx context.Context, entity string, limit int) ([]*models.AuditEvent, error)
}
