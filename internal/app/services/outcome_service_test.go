package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
)

func newOutcomeFixture() (*memStore, OutcomeService) {
	store := newMemStore()
	return store, NewOutcomeService(store, programStoreView{store}, store, zerolog.Nop())
}

func TestCreateOutcome(t *testing.T) {
	store, svc := newOutcomeFixture()
	ctx := context.Background()
	program := store.addProgram("SE", "Software Engineering")

	outcome := &models.ProgramOutcome{ProgramID: program.ID, Number: 1, Description: "Apply engineering knowledge"}
	require.NoError(t, svc.Create(ctx, 5, outcome))
	assert.NotZero(t, outcome.ID)

	events, err := store.ListRecent(ctx, "program_outcome", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.AuditOutcomeCreated, events[0].Action)
}

func TestCreateOutcomeValidation(t *testing.T) {
	store, svc := newOutcomeFixture()
	ctx := context.Background()
	program := store.addProgram("SE", "Software Engineering")

	err := svc.Create(ctx, 1, &models.ProgramOutcome{ProgramID: program.ID, Number: 0, Description: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = svc.Create(ctx, 1, &models.ProgramOutcome{ProgramID: program.ID, Number: 1, Description: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = svc.Create(ctx, 1, &models.ProgramOutcome{ProgramID: 9999, Number: 1, Description: "x"})
	assert.ErrorIs(t, err, apperrors.ErrProgramNotFound)
}

func TestUpdateOutcome(t *testing.T) {
	store, svc := newOutcomeFixture()
	ctx := context.Background()
	program := store.addProgram("SE", "Software Engineering")
	plo := store.addPLO(program.ID, 1, "Apply engineering knowledge")

	plo.Number = 3
	plo.Description = "Design within realistic constraints"
	require.NoError(t, svc.Update(ctx, 5, plo))

	stored, err := store.GetProgramOutcomeByID(ctx, plo.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Number)

	missing := &models.ProgramOutcome{ID: 9999, Number: 1, Description: "x"}
	assert.ErrorIs(t, svc.Update(ctx, 5, missing), apperrors.ErrOutcomeNotFound)
}

func TestDeleteOutcomeBlockedWhileMapped(t *testing.T) {
	store, svc := newOutcomeFixture()
	ctx := context.Background()
	program := store.addProgram("SE", "Software Engineering")
	plo := store.addPLO(program.ID, 1, "Apply engineering knowledge")
	clo := store.addCLO(program.ID, store.id(), 1, "Produce a modular design")

	draft, err := store.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	require.NoError(t, store.AddEntry(ctx, &models.MappingEntry{
		MappingID:        draft.ID,
		ProgramOutcomeID: plo.ID,
		CourseOutcomeID:  clo.ID,
	}))

	assert.ErrorIs(t, svc.Delete(ctx, 1, plo.ID), apperrors.ErrOutcomeInUse)

	require.NoError(t, store.RemoveEntry(ctx, &models.MappingEntry{
		MappingID:        draft.ID,
		ProgramOutcomeID: plo.ID,
		CourseOutcomeID:  clo.ID,
	}))
	require.NoError(t, svc.Delete(ctx, 1, plo.ID))

	_, err = store.GetProgramOutcomeByID(ctx, plo.ID)
	assert.ErrorIs(t, err, apperrors.ErrOutcomeNotFound)
}

func TestListByProgramOrdersByNumber(t *testing.T) {
	store, svc := newOutcomeFixture()
	ctx := context.Background()
	program := store.addProgram("SE", "Software Engineering")
	store.addPLO(program.ID, 2, "Communicate effectively")
	store.addPLO(program.ID, 1, "Apply engineering knowledge")

	plos, err := svc.ListByProgram(ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, plos, 2)
	assert.Equal(t, 1, plos[0].Number)
	assert.Equal(t, 2, plos[1].Number)
}
