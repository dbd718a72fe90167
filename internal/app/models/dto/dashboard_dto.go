package dto

import (
	"github.com/campusmetrics/ploboard/internal/app/models"
)

// DashboardResponse is the PLO dashboard payload: the outcome tree plus its
// summary banner, in one round trip.
type DashboardResponse struct {
	Tree    *models.OutcomeTree `json:"tree"`
	Summary models.TreeSummary  `json:"summary"`
}

// PreferenceResponse is one user preference slot
type PreferenceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetPreferenceRequest writes one user preference slot
type SetPreferenceRequest struct {
	Value string `json:"value" binding:"required"`
}
