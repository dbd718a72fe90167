package models

import (
	"time"

	"github.com/google/uuid"
)

// MappingStatus is the lifecycle state of an outcome mapping
type MappingStatus string

const (
	// MappingNone means the program has never had a mapping
	MappingNone MappingStatus = "none"
	// MappingDraft is mutable; at most one draft exists per program
	MappingDraft MappingStatus = "draft"
	// MappingPublished is immutable and version-stamped
	MappingPublished MappingStatus = "published"
)

// OutcomeMapping is one version of the many-to-many join between a program's
// outcomes and course outcomes. Drafts have a nil version; publishing stamps
// version = latest published + 1 and freezes the entry set.
type OutcomeMapping struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	ProgramID   int64         `json:"programId" db:"program_id"`
	Status      MappingStatus `json:"status" db:"status"`
	Version     *int          `json:"version,omitempty" db:"version"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty" db:"published_at"`
}

// MappingEntry links one program outcome to one course outcome within a
// mapping. The pair is unique per mapping.
type MappingEntry struct {
	MappingID        uuid.UUID `json:"mappingId" db:"mapping_id"`
	ProgramOutcomeID int64     `json:"programOutcomeId" db:"program_outcome_id"`
	CourseOutcomeID  int64     `json:"courseOutcomeId" db:"course_outcome_id"`
}
