package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/app/models/dto"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
	"github.com/campusmetrics/ploboard/internal/pkg/assessment"
)

func newProgramFixture() (*memStore, ProgramService) {
	store := newMemStore()
	return store, NewProgramService(programStoreView{store}, store, zerolog.Nop())
}

func TestCreateProgramDefaultsDisplayMode(t *testing.T) {
	_, svc := newProgramFixture()

	program := &models.Program{Code: "SE", Name: "Software Engineering"}
	require.NoError(t, svc.Create(context.Background(), program))
	assert.Equal(t, assessment.ModeCombined, program.DisplayMode)
	assert.Nil(t, program.PassThreshold)
	assert.NotZero(t, program.ID)
}

func TestCreateProgramRequiresCodeAndName(t *testing.T) {
	_, svc := newProgramFixture()
	ctx := context.Background()

	err := svc.Create(ctx, &models.Program{Name: "Software Engineering"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = svc.Create(ctx, &models.Program{Code: "SE", Name: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateProgramAppliesPartialRequest(t *testing.T) {
	store, svc := newProgramFixture()
	ctx := context.Background()
	program := store.addProgram("SE", "Software Engineering")

	mode := "binary"
	threshold := 85.0
	updated, err := svc.Update(ctx, 3, program.ID, &dto.UpdateProgramRequest{
		AssessmentDisplayMode: &mode,
		PassThreshold:         &threshold,
	})
	require.NoError(t, err)

	assert.Equal(t, "Software Engineering", updated.Name)
	assert.Equal(t, assessment.ModeBinary, updated.DisplayMode)
	require.NotNil(t, updated.PassThreshold)
	assert.InDelta(t, 85, *updated.PassThreshold, 0.001)

	events, err := store.ListRecent(ctx, "program", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.AuditProgramUpdated, events[0].Action)
	assert.JSONEq(t, `["assessment_display_mode","pass_threshold"]`, string(events[0].ChangedFields))
}

func TestUpdateProgramValidation(t *testing.T) {
	store, svc := newProgramFixture()
	ctx := context.Background()
	program := store.addProgram("SE", "Software Engineering")

	empty := "  "
	_, err := svc.Update(ctx, 1, program.ID, &dto.UpdateProgramRequest{Name: &empty})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	badMode := "pie-chart"
	_, err = svc.Update(ctx, 1, program.ID, &dto.UpdateProgramRequest{AssessmentDisplayMode: &badMode})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	badThreshold := 120.0
	_, err = svc.Update(ctx, 1, program.ID, &dto.UpdateProgramRequest{PassThreshold: &badThreshold})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Update(ctx, 1, 9999, &dto.UpdateProgramRequest{})
	assert.ErrorIs(t, err, apperrors.ErrProgramNotFound)
}

func TestUpdateProgramEmptyRequestIsNoop(t *testing.T) {
	store, svc := newProgramFixture()
	ctx := context.Background()
	program := store.addProgram("SE", "Software Engineering")

	updated, err := svc.Update(ctx, 1, program.ID, &dto.UpdateProgramRequest{})
	require.NoError(t, err)
	assert.Equal(t, program.ID, updated.ID)

	events, err := store.ListRecent(ctx, "program", 10)
	require.NoError(t, err)
	assert.Empty(t, events, "a no-op update must not produce an audit event")
}
