package models

import (
	"time"

	"github.com/campusmetrics/ploboard/internal/pkg/assessment"
)

// Program represents a degree program whose outcomes are assessed
type Program struct {
	ID            int64                  `json:"id" db:"id"`
	Code          string                 `json:"code" db:"code"`
	Name          string                 `json:"name" db:"name"`
	DisplayMode   assessment.DisplayMode `json:"assessmentDisplayMode" db:"assessment_display_mode"`
	PassThreshold *float64               `json:"passThreshold,omitempty" db:"pass_threshold"` // nil means use the configured default
	CreatedAt     time.Time              `json:"createdAt" db:"created_at"`
}

// Course represents a course owned by a program's curriculum
type Course struct {
	ID        int64  `json:"id" db:"id"`
	ProgramID int64  `json:"programId" db:"program_id"`
	Number    string `json:"number" db:"number"`
	Title     string `json:"title" db:"title"`
}
