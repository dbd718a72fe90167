package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
)

func newTermFixture() (*memStore, TermService) {
	store := newMemStore()
	return store, NewTermService(termStoreView{store}, zerolog.Nop())
}

func TestImportCountsJunkAsSkipped(t *testing.T) {
	store, svc := newTermFixture()
	ctx := context.Background()

	imported, skipped, err := svc.Import(ctx, []map[string]any{
		{"term_id": "202510", "term_name": "Fall 2025", "term_status": "ACTIVE", "start_date": "2025-09-01"},
		{"id": 202450, "name": "Spring 2025", "is_active": false},
		{"term_name": "no id at all"},
		nil,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 2, skipped)

	terms, err := store.GetAllTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 2)

	fall := terms[0]
	assert.Equal(t, "202510", fall.SISTermID)
	assert.Equal(t, "Fall 2025", fall.Name)
	assert.True(t, fall.IsActive)
	require.NotNil(t, fall.StartDate)
	assert.Equal(t, "2025-09-01", fall.StartDate.Format(time.DateOnly))
	assert.NotEmpty(t, fall.Raw, "the upstream record must be kept for auditing")

	// Numeric ids from the JSON decoder normalize to strings.
	assert.Equal(t, "202450", terms[1].SISTermID)
	assert.False(t, terms[1].IsActive)
}

func TestImportEmptyPayload(t *testing.T) {
	_, svc := newTermFixture()

	_, _, err := svc.Import(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestImportIsUpsertBySISTermID(t *testing.T) {
	store, svc := newTermFixture()
	ctx := context.Background()

	_, _, err := svc.Import(ctx, []map[string]any{
		{"term_id": "202510", "term_name": "Fall 2025", "is_active": false},
	})
	require.NoError(t, err)

	// The same feed row again, now flagged active.
	_, _, err = svc.Import(ctx, []map[string]any{
		{"term_id": "202510", "term_name": "Fall 2025", "term_status": "ACTIVE"},
	})
	require.NoError(t, err)

	terms, err := store.GetAllTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.True(t, terms[0].IsActive)
}

func TestDefaultTermActiveWinsInFeedOrder(t *testing.T) {
	_, svc := newTermFixture()
	ctx := context.Background()

	_, _, err := svc.Import(ctx, []map[string]any{
		{"term_id": "202450", "term_name": "Spring 2025", "is_active": false, "start_date": "2025-01-13"},
		{"term_id": "202510", "term_name": "Fall 2025", "term_status": "ACTIVE", "start_date": "2025-09-01"},
		{"term_id": "202550", "term_name": "Winter 2025", "is_active": true, "start_date": "2025-12-01"},
	})
	require.NoError(t, err)

	term, err := svc.DefaultTerm(ctx)
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "202510", term.SISTermID)
}

func TestDefaultTermFallsBackToMostRecentStart(t *testing.T) {
	_, svc := newTermFixture()
	ctx := context.Background()

	_, _, err := svc.Import(ctx, []map[string]any{
		{"term_id": "202510", "term_name": "Fall 2025", "start_date": "2025-09-01"},
		{"term_id": "202450", "term_name": "Spring 2025", "start_date": "2025-01-13"},
		{"term_id": "202410", "term_name": "Fall 2024"},
	})
	require.NoError(t, err)

	term, err := svc.DefaultTerm(ctx)
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "202510", term.SISTermID)
}

func TestDefaultTermContradictoryStatusCountsActive(t *testing.T) {
	_, svc := newTermFixture()
	ctx := context.Background()

	// One export says CLOSED, another says active. The generous reading
	// keeps the term active, so it beats the newer inactive term.
	_, _, err := svc.Import(ctx, []map[string]any{
		{"term_id": "t-contradictory", "status": "CLOSED", "active": true, "start_date": "2024-01-01"},
		{"term_id": "t-newer", "start_date": "2025-01-01"},
	})
	require.NoError(t, err)

	term, err := svc.DefaultTerm(ctx)
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "t-contradictory", term.SISTermID)
	assert.True(t, term.IsActive)
}

func TestDefaultTermEmptyStore(t *testing.T) {
	_, svc := newTermFixture()

	term, err := svc.DefaultTerm(context.Background())
	require.NoError(t, err)
	assert.Nil(t, term)
}

func TestDefaultTermRebuildsRowsWithoutRaw(t *testing.T) {
	store, svc := newTermFixture()
	ctx := context.Background()

	// Rows written before raw capture existed carry only the columns.
	start := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, &models.Term{SISTermID: "202450", Name: "Spring 2025", StartDate: &start}))
	require.NoError(t, store.Upsert(ctx, &models.Term{SISTermID: "202510", Name: "Fall 2025", IsActive: true}))

	term, err := svc.DefaultTerm(ctx)
	require.NoError(t, err)
	require.NotNil(t, term)
	assert.Equal(t, "202510", term.SISTermID)
}
