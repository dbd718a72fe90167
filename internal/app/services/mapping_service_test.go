package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
)

func newMappingFixture(t *testing.T) (*memStore, MappingService, *models.Program, *models.ProgramOutcome, *models.CourseOutcome) {
	t.Helper()

	store := newMemStore()
	program := store.addProgram("SE", "Software Engineering")
	plo := store.addPLO(program.ID, 1, "Apply engineering knowledge")
	clo := store.addCLO(program.ID, store.id(), 1, "Produce a modular design")

	svc := NewMappingService(mappingStoreView{store}, store, store, zerolog.Nop())
	return store, svc, program, plo, clo
}

func TestEnsureDraftIsIdempotent(t *testing.T) {
	_, svc, program, _, _ := newMappingFixture(t)
	ctx := context.Background()

	first, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, models.MappingDraft, first.Status)
	assert.Nil(t, first.Version)

	second, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureDraftUnknownProgram(t *testing.T) {
	_, svc, _, _, _ := newMappingFixture(t)

	_, err := svc.EnsureDraft(context.Background(), 9999)
	assert.ErrorIs(t, err, apperrors.ErrProgramNotFound)
}

func TestAddEntryValidatesBeforeStore(t *testing.T) {
	store, svc, program, plo, clo := newMappingFixture(t)
	ctx := context.Background()

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)

	_, err = svc.AddEntry(ctx, 1, uuid.Nil, plo.ID, clo.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.AddEntry(ctx, 1, draft.ID, 0, clo.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, -3)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// None of the rejected calls may have reached the entry store.
	entries, err := store.ListEntries(ctx, draft.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddEntryRejectsCrossProgramOutcomes(t *testing.T) {
	store, svc, program, plo, _ := newMappingFixture(t)
	ctx := context.Background()

	other := store.addProgram("ME", "Mechanical Engineering")
	foreignCLO := store.addCLO(other.ID, store.id(), 1, "Analyze thermal systems")
	foreignPLO := store.addPLO(other.ID, 1, "Design mechanical components")

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)

	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, foreignCLO.ID)
	assert.ErrorIs(t, err, apperrors.ErrOutcomeProgramMixup)

	_, err = svc.AddEntry(ctx, 1, draft.ID, foreignPLO.ID, foreignCLO.ID)
	assert.ErrorIs(t, err, apperrors.ErrOutcomeProgramMixup)
}

func TestAddEntryDuplicate(t *testing.T) {
	_, svc, program, plo, clo := newMappingFixture(t)
	ctx := context.Background()

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)

	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, clo.ID)
	require.NoError(t, err)

	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, clo.ID)
	assert.ErrorIs(t, err, apperrors.ErrEntryAlreadyMapped)
}

func TestAddEntryRequiresDraftStatus(t *testing.T) {
	_, svc, program, plo, clo := newMappingFixture(t)
	ctx := context.Background()

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, clo.ID)
	require.NoError(t, err)
	_, err = svc.Publish(ctx, 1, draft.ID, nil)
	require.NoError(t, err)

	// The id still resolves, but the mapping is frozen now.
	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, clo.ID)
	assert.ErrorIs(t, err, apperrors.ErrMappingNotDraft)
}

func TestPublishEmptyDraftRejected(t *testing.T) {
	_, svc, program, _, _ := newMappingFixture(t)
	ctx := context.Background()

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)

	_, err = svc.Publish(ctx, 1, draft.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrNothingToPublish)
}

func TestPublishStampsConsecutiveVersions(t *testing.T) {
	store, svc, program, plo, clo := newMappingFixture(t)
	ctx := context.Background()

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, clo.ID)
	require.NoError(t, err)

	published, err := svc.Publish(ctx, 1, draft.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, published.Version)
	assert.Equal(t, 1, *published.Version)
	assert.Equal(t, models.MappingPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	// A second cycle stamps version 2.
	clo2 := store.addCLO(program.ID, store.id(), 2, "Evaluate design trade-offs")
	draft2, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	assert.NotEqual(t, draft.ID, draft2.ID)

	_, err = svc.AddEntry(ctx, 1, draft2.ID, plo.ID, clo2.ID)
	require.NoError(t, err)
	published2, err := svc.Publish(ctx, 1, draft2.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, *published2.Version)
}

func TestPublishBaseVersionConflict(t *testing.T) {
	_, svc, program, plo, clo := newMappingFixture(t)
	ctx := context.Background()

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, clo.ID)
	require.NoError(t, err)
	_, err = svc.Publish(ctx, 1, draft.ID, nil)
	require.NoError(t, err)

	// A second editor drafted against version 0 (before the first publish).
	draft2, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, 1, draft2.ID, plo.ID, clo.ID)
	require.NoError(t, err)

	stale := 0
	_, err = svc.Publish(ctx, 1, draft2.ID, &stale)
	assert.ErrorIs(t, err, apperrors.ErrMappingConflict)

	// With the right base version the publish goes through.
	current := 1
	published, err := svc.Publish(ctx, 1, draft2.ID, &current)
	require.NoError(t, err)
	assert.Equal(t, 2, *published.Version)
}

func TestListUnmappedShrinksAsEntriesLand(t *testing.T) {
	store, svc, program, plo, clo := newMappingFixture(t)
	ctx := context.Background()

	clo2 := store.addCLO(program.ID, store.id(), 2, "Evaluate design trade-offs")

	unmapped, err := svc.ListUnmapped(ctx, program.ID)
	require.NoError(t, err)
	assert.Len(t, unmapped, 2)

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, clo.ID)
	require.NoError(t, err)

	unmapped, err = svc.ListUnmapped(ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, unmapped, 1)
	assert.Equal(t, clo2.ID, unmapped[0].ID)

	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, clo2.ID)
	require.NoError(t, err)

	unmapped, err = svc.ListUnmapped(ctx, program.ID)
	require.NoError(t, err)
	assert.Empty(t, unmapped, "fully mapped program must yield an empty list, not an error")
}

func TestListUnmappedFallsBackToPublished(t *testing.T) {
	_, svc, program, plo, clo := newMappingFixture(t)
	ctx := context.Background()

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, clo.ID)
	require.NoError(t, err)
	_, err = svc.Publish(ctx, 1, draft.ID, nil)
	require.NoError(t, err)

	// No draft open now; the published set is the reference.
	unmapped, err := svc.ListUnmapped(ctx, program.ID)
	require.NoError(t, err)
	assert.Empty(t, unmapped)
}

func TestDiscardDeletesDraft(t *testing.T) {
	store, svc, program, plo, clo := newMappingFixture(t)
	ctx := context.Background()

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, 1, draft.ID, plo.ID, clo.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, 1, draft.ID))

	gone, err := store.GetDraft(ctx, program.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = svc.Discard(ctx, 1, draft.ID)
	assert.True(t, errors.Is(err, apperrors.ErrMappingNotFound))
}

func TestMutationsAreAudited(t *testing.T) {
	store, svc, program, plo, clo := newMappingFixture(t)
	ctx := context.Background()

	draft, err := svc.EnsureDraft(ctx, program.ID)
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, 7, draft.ID, plo.ID, clo.ID)
	require.NoError(t, err)
	_, err = svc.Publish(ctx, 7, draft.ID, nil)
	require.NoError(t, err)

	events, err := store.ListRecent(ctx, "outcome_mapping", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.AuditMappingPublished, events[0].Action)
	assert.Equal(t, models.AuditEntryAdded, events[1].Action)
	require.NotNil(t, events[0].ActorID)
	assert.Equal(t, int64(7), *events[0].ActorID)
}
