package dto

// CreateProgramRequest represents program creation data
type CreateProgramRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// UpdateProgramRequest represents program update data. All fields are
// optional; only the fields present are written. The display mode is purely
// presentational, so changing it never touches assessment data.
type UpdateProgramRequest struct {
	Name                  *string  `json:"name,omitempty"`
	AssessmentDisplayMode *string  `json:"assessment_display_mode,omitempty"`
	PassThreshold         *float64 `json:"pass_threshold,omitempty"`
}

// ProgramListResponse represents a paginated list of programs
type ProgramListResponse struct {
	Programs interface{} `json:"programs"`
	PaginationInfo
}
