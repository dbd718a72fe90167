package dto

// CreateOutcomeRequest represents program outcome creation data
type CreateOutcomeRequest struct {
	PloNumber   int    `json:"plo_number" binding:"required,gt=0"`
	Description string `json:"description" binding:"required"`
}

// UpdateOutcomeRequest represents program outcome update data
type UpdateOutcomeRequest struct {
	PloNumber   int    `json:"plo_number" binding:"required,gt=0"`
	Description string `json:"description" binding:"required"`
}
