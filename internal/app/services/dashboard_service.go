package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
	"github.com/campusmetrics/ploboard/internal/pkg/assessment"
)

// DashboardService builds the PLO dashboard: the outcome tree with
// aggregates rolled up from section snapshots, the summary banner, and the
// per-user program/term selection. All state is explicit per call; two
// dashboard sessions never share anything but the database.
type DashboardService interface {
	LoadTree(ctx context.Context, programID, termID int64) (*models.OutcomeTree, error)
	ResolveSelection(ctx context.Context, userID, requestedProgramID, requestedTermID int64) (programID, termID int64, err error)
}

// DashboardDefaults are the fallbacks applied when a program does not carry
// its own presentation settings.
type DashboardDefaults struct {
	PassThreshold float64
	DisplayMode   assessment.DisplayMode
}

type dashboardService struct {
	programs    ProgramStore
	outcomes    OutcomeStore
	mappings    MappingStore
	assessments AssessmentStore
	prefs       PreferenceStore
	termSvc     TermService
	defaults    DashboardDefaults
	logger      zerolog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	programs ProgramStore,
	outcomes OutcomeStore,
	mappings MappingStore,
	assessments AssessmentStore,
	prefs PreferenceStore,
	termSvc TermService,
	defaults DashboardDefaults,
	logger zerolog.Logger,
) DashboardService {
	if defaults.PassThreshold <= 0 {
		defaults.PassThreshold = assessment.DefaultPassThreshold
	}
	if !assessment.ValidDisplayMode(defaults.DisplayMode) {
		defaults.DisplayMode = assessment.ModeCombined
	}
	return &dashboardService{
		programs:    programs,
		outcomes:    outcomes,
		mappings:    mappings,
		assessments: assessments,
		prefs:       prefs,
		termSvc:     termSvc,
		defaults:    defaults,
		logger:      logger,
	}
}

// LoadTree builds the PLO → CLO → section hierarchy for one program and
// term. The tree reflects the latest published mapping; draft edits stay
// invisible until publish. A termID of 0 means "resolve the default term".
// Zero outcomes, zero mapped CLOs and zero sections are all valid shapes.
func (s *dashboardService) LoadTree(ctx context.Context, programID, termID int64) (*models.OutcomeTree, error) {
	if programID <= 0 {
		return nil, apperrors.NewValidationError("program id is required")
	}

	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}

	if termID == 0 {
		term, err := s.termSvc.DefaultTerm(ctx)
		if err != nil {
			return nil, err
		}
		if term != nil {
			termID = term.ID
		}
	}

	tree := &models.OutcomeTree{
		ProgramID:     programID,
		TermID:        termID,
		MappingStatus: models.MappingNone,
		DisplayMode:   s.displayMode(program),
		PassThreshold: s.passThreshold(program),
		Outcomes:      []models.PLONode{},
	}

	published, err := s.mappings.GetLatestPublished(ctx, programID)
	if err != nil {
		return nil, err
	}
	draft, err := s.mappings.GetDraft(ctx, programID)
	if err != nil {
		return nil, err
	}
	switch {
	case published != nil:
		tree.MappingStatus = models.MappingPublished
		tree.MappingVersion = published.Version
	case draft != nil:
		tree.MappingStatus = models.MappingDraft
	}

	// Only published entries shape the tree.
	cloIDsByPLO := map[int64][]int64{}
	var allCloIDs []int64
	if published != nil {
		entries, err := s.mappings.ListEntries(ctx, published.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			cloIDsByPLO[e.ProgramOutcomeID] = append(cloIDsByPLO[e.ProgramOutcomeID], e.CourseOutcomeID)
			allCloIDs = append(allCloIDs, e.CourseOutcomeID)
		}
	}

	plos, err := s.outcomes.ListProgramOutcomes(ctx, programID)
	if err != nil {
		return nil, err
	}

	clos, err := s.outcomes.ListCourseOutcomesByIDs(ctx, allCloIDs)
	if err != nil {
		return nil, err
	}
	sectionsByCLO, err := s.assessments.ListByCourseOutcomes(ctx, allCloIDs, termID)
	if err != nil {
		return nil, err
	}

	for _, plo := range plos {
		node := models.PLONode{
			Outcome:        *plo,
			CourseOutcomes: []models.CLONode{},
		}

		var cloAggs []assessment.Aggregate
		for _, cloID := range cloIDsByPLO[plo.ID] {
			clo, ok := clos[cloID]
			if !ok {
				continue
			}
			cloNode := s.buildCLONode(clo, sectionsByCLO[cloID], tree)
			cloAggs = append(cloAggs, cloNode.Aggregate)
			node.CourseOutcomes = append(node.CourseOutcomes, cloNode)
		}

		node.MappedCloCount = len(node.CourseOutcomes)
		node.AutoExpand = node.MappedCloCount == 0
		node.Aggregate = assessment.Rollup(cloAggs...)
		node.Formatted = assessment.Format(node.Aggregate.PassRate, tree.DisplayMode, tree.PassThreshold)
		tree.Outcomes = append(tree.Outcomes, node)
	}

	return tree, nil
}

func (s *dashboardService) buildCLONode(clo *models.CourseOutcome, sections []*models.SectionAssessment, tree *models.OutcomeTree) models.CLONode {
	node := models.CLONode{
		Outcome:  *clo,
		Sections: []models.SectionNode{},
	}

	counts := make([]assessment.SectionCounts, 0, len(sections))
	for _, sa := range sections {
		counts = append(counts, assessment.SectionCounts{
			StudentsAssessed: sa.StudentsAssessed,
			StudentsPassed:   sa.StudentsPassed,
		})

		sectionAgg := assessment.SectionAggregate([]assessment.SectionCounts{{
			StudentsAssessed: sa.StudentsAssessed,
			StudentsPassed:   sa.StudentsPassed,
		}})
		node.Sections = append(node.Sections, models.SectionNode{
			Record:    *sa,
			PassRate:  sectionAgg.PassRate,
			Formatted: assessment.Format(sectionAgg.PassRate, tree.DisplayMode, tree.PassThreshold),
		})
	}

	node.Aggregate = assessment.SectionAggregate(counts)
	node.Formatted = assessment.Format(node.Aggregate.PassRate, tree.DisplayMode, tree.PassThreshold)
	return node
}

func (s *dashboardService) displayMode(program *models.Program) assessment.DisplayMode {
	if assessment.ValidDisplayMode(program.DisplayMode) {
		return program.DisplayMode
	}
	return s.defaults.DisplayMode
}

func (s *dashboardService) passThreshold(program *models.Program) float64 {
	if program.PassThreshold != nil && *program.PassThreshold > 0 {
		return *program.PassThreshold
	}
	return s.defaults.PassThreshold
}

// Summarize rolls a whole tree into the banner numbers. The overall rate
// sums raw student counts across every PLO; averaging per-PLO rates would
// let a 3-student outcome outweigh a 300-student one. A nil tree yields the
// blank summary used to clear stale state.
func Summarize(tree *models.OutcomeTree) models.TreeSummary {
	if tree == nil {
		return models.TreeSummary{MappingStatus: models.MappingNone}
	}

	summary := models.TreeSummary{
		OutcomeCount:  len(tree.Outcomes),
		MappingStatus: tree.MappingStatus,
	}

	aggs := make([]assessment.Aggregate, 0, len(tree.Outcomes))
	for _, plo := range tree.Outcomes {
		if plo.MappedCloCount > 0 {
			summary.MappedOutcomeCount++
		}
		aggs = append(aggs, plo.Aggregate)
	}
	summary.OverallPassRate = assessment.Rollup(aggs...).PassRate
	return summary
}

// ResolveSelection decides which program and term a dashboard session shows.
// Precedence for the program: explicit request, then the persisted
// "last selected program" slot, then the first program. A stale persisted id
// falls back silently and the slot is rewritten. The resolved program id is
// persisted for the next session.
func (s *dashboardService) ResolveSelection(ctx context.Context, userID, requestedProgramID, requestedTermID int64) (int64, int64, error) {
	programs, _, err := s.programs.GetAll(ctx, 0, 500)
	if err != nil {
		return 0, 0, fmt.Errorf("error listing programs: %w", err)
	}
	if len(programs) == 0 {
		return 0, 0, apperrors.ErrProgramNotFound
	}

	known := make(map[int64]bool, len(programs))
	for _, p := range programs {
		known[p.ID] = true
	}

	programID := requestedProgramID
	if programID == 0 && userID > 0 {
		stored, err := s.prefs.Get(ctx, userID, models.PrefLastProgram)
		if err != nil {
			return 0, 0, err
		}
		if stored != "" {
			if parsed, err := strconv.ParseInt(stored, 10, 64); err == nil {
				programID = parsed
			}
		}
	}
	if !known[programID] {
		programID = programs[0].ID
	}

	if userID > 0 {
		if err := s.prefs.Set(ctx, userID, models.PrefLastProgram, strconv.FormatInt(programID, 10)); err != nil {
			s.logger.Warn().Err(err).Int64("userId", userID).Msg("Failed to persist program selection")
		}
	}

	termID := requestedTermID
	if termID == 0 {
		term, err := s.termSvc.DefaultTerm(ctx)
		if err != nil {
			return 0, 0, err
		}
		if term != nil {
			termID = term.ID
		}
	}

	return programID, termID, nil
}
