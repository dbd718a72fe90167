package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
)

// MappingService drives the draft/publish lifecycle of a program's outcome
// mapping: NoMapping → Draft → Published(v1) → Draft → Published(v2) → … .
// A draft is the only mutable state; publishing consumes it and stamps the
// next version. Reads held by callers are stale after every mutation here;
// this service never patches them incrementally.
type MappingService interface {
	EnsureDraft(ctx context.Context, programID int64) (*models.OutcomeMapping, error)
	ListUnmapped(ctx context.Context, programID int64) ([]*models.CourseOutcome, error)
	AddEntry(ctx context.Context, actorID int64, draftID uuid.UUID, programOutcomeID, courseOutcomeID int64) (*models.MappingEntry, error)
	RemoveEntry(ctx context.Context, actorID int64, draftID uuid.UUID, programOutcomeID, courseOutcomeID int64) error
	Publish(ctx context.Context, actorID int64, draftID uuid.UUID, baseVersion *int) (*models.OutcomeMapping, error)
	Discard(ctx context.Context, actorID int64, draftID uuid.UUID) error
}

type mappingService struct {
	mappings MappingStore
	outcomes OutcomeStore
	audit    AuditStore
	logger   zerolog.Logger
}

// NewMappingService creates a new mapping service
func NewMappingService(mappings MappingStore, outcomes OutcomeStore, audit AuditStore, logger zerolog.Logger) MappingService {
	return &mappingService{
		mappings: mappings,
		outcomes: outcomes,
		audit:    audit,
		logger:   logger,
	}
}

// EnsureDraft idempotently returns the program's open draft. Calling it
// twice in a row yields the same draft id.
func (s *mappingService) EnsureDraft(ctx context.Context, programID int64) (*models.OutcomeMapping, error) {
	if programID <= 0 {
		return nil, apperrors.NewValidationError("program id is required")
	}

	draft, err := s.mappings.EnsureDraft(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("error ensuring draft: %w", err)
	}
	return draft, nil
}

// ListUnmapped returns the CLOs not present in the current draft, or in the
// latest published set when no draft is open. An empty result means the
// program is fully mapped; it is not a failure.
func (s *mappingService) ListUnmapped(ctx context.Context, programID int64) ([]*models.CourseOutcome, error) {
	if programID <= 0 {
		return nil, apperrors.NewValidationError("program id is required")
	}

	mapping, err := s.mappings.GetDraft(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("error loading draft: %w", err)
	}
	if mapping == nil {
		mapping, err = s.mappings.GetLatestPublished(ctx, programID)
		if err != nil {
			return nil, fmt.Errorf("error loading published mapping: %w", err)
		}
	}

	var mappingID *uuid.UUID
	if mapping != nil {
		mappingID = &mapping.ID
	}

	unmapped, err := s.outcomes.ListUnmappedCourseOutcomes(ctx, programID, mappingID)
	if err != nil {
		return nil, fmt.Errorf("error listing unmapped course outcomes: %w", err)
	}
	return unmapped, nil
}

// AddEntry links a program outcome to a course outcome in an open draft.
// Missing ids fail validation before any store call; the usual cause is an
// unselected dropdown and a round trip would tell the caller nothing new.
func (s *mappingService) AddEntry(ctx context.Context, actorID int64, draftID uuid.UUID, programOutcomeID, courseOutcomeID int64) (*models.MappingEntry, error) {
	if draftID == uuid.Nil {
		return nil, apperrors.NewValidationError("draft id is required")
	}
	if programOutcomeID <= 0 {
		return nil, apperrors.NewValidationError("program outcome id is required")
	}
	if courseOutcomeID <= 0 {
		return nil, apperrors.NewValidationError("course outcome id is required")
	}

	draft, err := s.mappings.GetByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != models.MappingDraft {
		return nil, apperrors.ErrMappingNotDraft
	}

	plo, err := s.outcomes.GetProgramOutcomeByID(ctx, programOutcomeID)
	if err != nil {
		return nil, err
	}
	if plo.ProgramID != draft.ProgramID {
		return nil, apperrors.ErrOutcomeProgramMixup
	}

	clo, err := s.outcomes.GetCourseOutcomeByID(ctx, courseOutcomeID)
	if err != nil {
		return nil, err
	}
	if clo.ProgramID != draft.ProgramID {
		return nil, apperrors.ErrOutcomeProgramMixup
	}

	entry := &models.MappingEntry{
		MappingID:        draftID,
		ProgramOutcomeID: programOutcomeID,
		CourseOutcomeID:  courseOutcomeID,
	}
	if err := s.mappings.AddEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actorID, models.AuditEntryAdded, draftID, []string{"program_outcome_id", "course_outcome_id"})
	return entry, nil
}

// RemoveEntry unlinks a pair in an open draft
func (s *mappingService) RemoveEntry(ctx context.Context, actorID int64, draftID uuid.UUID, programOutcomeID, courseOutcomeID int64) error {
	if draftID == uuid.Nil {
		return apperrors.NewValidationError("draft id is required")
	}
	if programOutcomeID <= 0 || courseOutcomeID <= 0 {
		return apperrors.NewValidationError("both outcome ids are required")
	}

	draft, err := s.mappings.GetByID(ctx, draftID)
	if err != nil {
		return err
	}
	if draft.Status != models.MappingDraft {
		return apperrors.ErrMappingNotDraft
	}

	err = s.mappings.RemoveEntry(ctx, &models.MappingEntry{
		MappingID:        draftID,
		ProgramOutcomeID: programOutcomeID,
		CourseOutcomeID:  courseOutcomeID,
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, actorID, models.AuditEntryRemoved, draftID, []string{"program_outcome_id", "course_outcome_id"})
	return nil
}

// Publish freezes a draft into the next published version. An empty draft is
// rejected. When baseVersion is given and another publish landed in between,
// the call fails with a conflict instead of silently stacking a version on
// top of mappings the editor never saw.
func (s *mappingService) Publish(ctx context.Context, actorID int64, draftID uuid.UUID, baseVersion *int) (*models.OutcomeMapping, error) {
	if draftID == uuid.Nil {
		return nil, apperrors.NewValidationError("draft id is required")
	}

	published, err := s.mappings.Publish(ctx, draftID, baseVersion)
	if err != nil {
		return nil, err
	}

	version := 0
	if published.Version != nil {
		version = *published.Version
	}
	s.logger.Info().
		Int64("programId", published.ProgramID).
		Str("mappingId", published.ID.String()).
		Int("version", version).
		Msg("Outcome mapping published")

	s.recordAudit(ctx, actorID, models.AuditMappingPublished, draftID, []string{"status", "version"})
	return published, nil
}

// Discard deletes an open draft without publishing it
func (s *mappingService) Discard(ctx context.Context, actorID int64, draftID uuid.UUID) error {
	if draftID == uuid.Nil {
		return apperrors.NewValidationError("draft id is required")
	}

	if err := s.mappings.DeleteDraft(ctx, draftID); err != nil {
		return err
	}

	s.recordAudit(ctx, actorID, models.AuditMappingDiscarded, draftID, nil)
	return nil
}

// recordAudit appends an audit event. Audit failures are logged, never
// surfaced: the mutation already happened.
func (s *mappingService) recordAudit(ctx context.Context, actorID int64, action string, mappingID uuid.UUID, changed []string) {
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
		Entity:        "outcome_mapping",
		EntityID:      mappingID.String(),
		ChangedFields: changedJSON,
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("Failed to record audit event")
	}
}
