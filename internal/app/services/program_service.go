package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/app/models/dto"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
	"github.com/campusmetrics/ploboard/internal/pkg/assessment"
)

// ProgramService handles program CRUD and presentation settings
type ProgramService interface {
	Create(ctx context.Context, program *models.Program) error
	GetByID(ctx context.Context, id int64) (*models.Program, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Program, int64, error)
	Update(ctx context.Context, actorID, id int64, req *dto.UpdateProgramRequest) (*models.Program, error)
}

type programService struct {
	programs ProgramStore
	audit    AuditStore
	logger   zerolog.Logger
}

// NewProgramService creates a new program service
func NewProgramService(programs ProgramStore, audit AuditStore, logger zerolog.Logger) ProgramService {
	return &programService{
		programs: programs,
		audit:    audit,
		logger:   logger,
	}
}

// Create creates a new program with default presentation settings
func (s *programService) Create(ctx context.Context, program *models.Program) error {
	if strings.TrimSpace(program.Code) == "" {
		return apperrors.NewValidationError("program code is required")
	}
	if strings.TrimSpace(program.Name) == "" {
		return apperrors.NewValidationError("program name is required")
	}
	if program.DisplayMode == "" {
		program.DisplayMode = assessment.ModeCombined
	}

	return s.programs.Create(ctx, program)
}

// GetByID retrieves a program
func (s *programService) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("program id is required")
	}
	return s.programs.GetByID(ctx, id)
}

// GetAll retrieves programs with pagination
func (s *programService) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Program, int64, error) {
	return s.programs.GetAll(ctx, offset, limit)
}

// Update applies the fields present in the request. Changing the display
// mode only rewrites the program row; assessment data is untouched, so
// dashboards re-render with data they already hold.
func (s *programService) Update(ctx context.Context, actorID, id int64, req *dto.UpdateProgramRequest) (*models.Program, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("program id is required")
	}

	program, err := s.programs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.NewValidationError("program name cannot be empty")
		}
		program.Name = *req.Name
		changed = append(changed, "name")
	}
	if req.AssessmentDisplayMode != nil {
		mode := assessment.DisplayMode(*req.AssessmentDisplayMode)
		if !assessment.ValidDisplayMode(mode) {
			return nil, apperrors.NewValidationError("display mode must be binary, percentage or combined")
		}
		program.DisplayMode = mode
		changed = append(changed, "assessment_display_mode")
	}
	if req.PassThreshold != nil {
		if *req.PassThreshold < 0 || *req.PassThreshold > 100 {
			return nil, apperrors.NewValidationError("pass threshold must be between 0 and 100")
		}
		program.PassThreshold = req.PassThreshold
		changed = append(changed, "pass_threshold")
	}

	if len(changed) == 0 {
		return program, nil
	}

	if err := s.programs.Update(ctx, program); err != nil {
		return nil, err
	}

	changedJSON, _ := json.Marshal(changed)
	var actor *int64
	if actorID > 0 {
		actor = &actorID
	}
	event := &models.AuditEvent{
		ActorID:       actor,
		Action:        models.AuditProgramUpdated,
		Entity:        "program",
		EntityID:      auditEntityID(id),
		ChangedFields: changedJSON,
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Warn().Err(err).Int64("programId", id).Msg("Failed to record audit event")
	}

	return program, nil
}
