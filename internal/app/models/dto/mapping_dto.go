package dto

// EnsureDraftRequest asks for the program's open draft, creating one if none
// exists. The call is idempotent.
type EnsureDraftRequest struct {
	ProgramID int64 `json:"program_id" binding:"required,gt=0"`
}

// MappingResponse wraps a mapping for the "ensure draft" and publish replies
type MappingResponse struct {
	Mapping interface{} `json:"mapping"`
}

// AddEntryRequest links one program outcome to one course outcome in a draft
type AddEntryRequest struct {
	ProgramOutcomeID int64 `json:"program_outcome_id" binding:"required,gt=0"`
	CourseOutcomeID  int64 `json:"course_outcome_id" binding:"required,gt=0"`
}

// RemoveEntryRequest removes one link from a draft
type RemoveEntryRequest struct {
	ProgramOutcomeID int64 `json:"program_outcome_id" binding:"required,gt=0"`
	CourseOutcomeID  int64 `json:"course_outcome_id" binding:"required,gt=0"`
}

// PublishRequest publishes a draft. BaseVersion, when present, is the
// published version the editor based the draft on; a mismatch at publish
// time means someone else published in between and the request is rejected.
type PublishRequest struct {
	BaseVersion *int `json:"base_version,omitempty"`
}

// UnmappedClosResponse lists course outcomes not yet present in the current
// mapping. An empty list means "fully mapped".
type UnmappedClosResponse struct {
	UnmappedClos interface{} `json:"unmapped_clos"`
}
