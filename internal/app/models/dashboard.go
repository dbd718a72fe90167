package models

import (
	"github.com/campusmetrics/ploboard/internal/pkg/assessment"
)

// OutcomeTree is the full PLO → CLO → section hierarchy for one program and
// term, with aggregates computed at every level. An empty Outcomes slice is
// the valid "no outcomes defined yet" state, not an error.
type OutcomeTree struct {
	ProgramID      int64                  `json:"programId"`
	TermID         int64                  `json:"termId"`
	MappingStatus  MappingStatus          `json:"mappingStatus"`
	MappingVersion *int                   `json:"mappingVersion,omitempty"`
	DisplayMode    assessment.DisplayMode `json:"displayMode"`
	PassThreshold  float64                `json:"passThreshold"`
	Outcomes       []PLONode              `json:"outcomes"`
}

// PLONode is one program outcome with its mapped course outcomes.
// AutoExpand signals the "no CLOs mapped" terminal state so presentation
// layers open it by default; this layer never renders anything itself.
type PLONode struct {
	Outcome        ProgramOutcome       `json:"outcome"`
	MappedCloCount int                  `json:"mappedCloCount"`
	Aggregate      assessment.Aggregate `json:"aggregate"`
	Formatted      assessment.Formatted `json:"formatted"`
	AutoExpand     bool                 `json:"autoExpand"`
	CourseOutcomes []CLONode            `json:"courseOutcomes"`
}

// CLONode is one mapped course outcome with its section snapshots for the
// selected term. Zero sections is the valid "no section assessments yet"
// state.
type CLONode struct {
	Outcome   CourseOutcome        `json:"outcome"`
	Aggregate assessment.Aggregate `json:"aggregate"`
	Formatted assessment.Formatted `json:"formatted"`
	Sections  []SectionNode        `json:"sections"`
}

// SectionNode is one section's snapshot with its own pass rate rendered.
type SectionNode struct {
	Record    SectionAssessment    `json:"record"`
	PassRate  *float64             `json:"passRate"`
	Formatted assessment.Formatted `json:"formatted"`
}

// TreeSummary is the roll-up banner over a whole tree.
type TreeSummary struct {
	OutcomeCount       int           `json:"outcomeCount"`
	MappedOutcomeCount int           `json:"mappedOutcomeCount"`
	OverallPassRate    *float64      `json:"overallPassRate"`
	MappingStatus      MappingStatus `json:"mappingStatus"`
}
