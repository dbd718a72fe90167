package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
)

// OutcomeService handles program outcome (PLO) CRUD
type OutcomeService interface {
	Create(ctx context.Context, actorID int64, outcome *models.ProgramOutcome) error
	Update(ctx context.Context, actorID int64, outcome *models.ProgramOutcome) error
	Delete(ctx context.Context, actorID, id int64) error
	GetByID(ctx context.Context, id int64) (*models.ProgramOutcome, error)
	ListByProgram(ctx context.Context, programID int64) ([]*models.ProgramOutcome, error)
}

type outcomeService struct {
	outcomes OutcomeStore
	programs ProgramStore
	audit    AuditStore
	logger   zerolog.Logger
}

// NewOutcomeService creates a new outcome service
func NewOutcomeService(outcomes OutcomeStore, programs ProgramStore, audit AuditStore, logger zerolog.Logger) OutcomeService {
	return &outcomeService{
		outcomes: outcomes,
		programs: programs,
		audit:    audit,
		logger:   logger,
	}
}

func validateOutcome(outcome *models.ProgramOutcome) error {
	if outcome.Number <= 0 {
		return apperrors.NewValidationError("outcome number must be a positive integer")
	}
	if strings.TrimSpace(outcome.Description) == "" {
		return apperrors.NewValidationError("outcome description is required")
	}
	return nil
}

// Create creates a new PLO in a program
func (s *outcomeService) Create(ctx context.Context, actorID int64, outcome *models.ProgramOutcome) error {
	if err := validateOutcome(outcome); err != nil {
		return err
	}

	// The program must exist; a bad id would otherwise surface as an
	// unhelpful foreign key error.
	if _, err := s.programs.GetByID(ctx, outcome.ProgramID); err != nil {
		return err
	}

	if err := s.outcomes.CreateProgramOutcome(ctx, outcome); err != nil {
		return err
	}

	s.recordAudit(ctx, actorID, models.AuditOutcomeCreated, outcome.ID, []string{"number", "description"})
	return nil
}

// Update rewrites a PLO's number and description
func (s *outcomeService) Update(ctx context.Context, actorID int64, outcome *models.ProgramOutcome) error {
	if outcome.ID <= 0 {
		return apperrors.NewValidationError("outcome id is required")
	}
	if err := validateOutcome(outcome); err != nil {
		return err
	}

	if err := s.outcomes.UpdateProgramOutcome(ctx, outcome); err != nil {
		return err
	}

	s.recordAudit(ctx, actorID, models.AuditOutcomeUpdated, outcome.ID, []string{"number", "description"})
	return nil
}

// Delete removes a PLO. The store rejects the delete while the outcome is
// referenced by any mapping entry; the caller only reports that error.
func (s *outcomeService) Delete(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("outcome id is required")
	}

	if err := s.outcomes.DeleteProgramOutcome(ctx, id); err != nil {
		return err
	}

	s.recordAudit(ctx, actorID, models.AuditOutcomeDeleted, id, nil)
	return nil
}

// GetByID retrieves a PLO
func (s *outcomeService) GetByID(ctx context.Context, id int64) (*models.ProgramOutcome, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("outcome id is required")
	}
	return s.outcomes.GetProgramOutcomeByID(ctx, id)
}

// ListByProgram retrieves a program's PLOs ordered by number
func (s *outcomeService) ListByProgram(ctx context.Context, programID int64) ([]*models.ProgramOutcome, error) {
	if programID <= 0 {
		return nil, apperrors.NewValidationError("program id is required")
	}
	return s.outcomes.ListProgramOutcomes(ctx, programID)
}

func (s *outcomeService) recordAudit(ctx context.Context, actorID int64, action string, outcomeID int64, changed []string) {
	var changedJSON []byte
	if changed != nil {
		changedJSON, _ = json.Marshal(changed)
	}
	var actor *int64
	if actorID > 0 {
		actor = &actorID
	}
	event := &models.AuditEvent{
		ActorID:       actor,
		Action:        action,
		Entity:        "program_outcome",
		EntityID:      auditEntityID(outcomeID),
		ChangedFields: changedJSON,
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("Failed to record audit event")
	}
}

// auditEntityID formats numeric entity ids for the audit trail
func auditEntityID(id int64) string {
	return strconv.FormatInt(id, 10)
}
