package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
	"github.com/campusmetrics/ploboard/internal/pkg/sisterm"
)

// TermService owns academic terms: importing the heterogeneous SIS feed and
// resolving the default term for the dashboard
type TermService interface {
	Import(ctx context.Context, raws []map[string]any) (imported, skipped int, err error)
	GetAll(ctx context.Context) ([]*models.Term, error)
	GetByID(ctx context.Context, id int64) (*models.Term, error)
	DefaultTerm(ctx context.Context) (*models.Term, error)
}

type termService struct {
	terms  TermStore
	logger zerolog.Logger
}

// NewTermService creates a new term service
func NewTermService(terms TermStore, logger zerolog.Logger) TermService {
	return &termService{
		terms:  terms,
		logger: logger,
	}
}

// Import normalizes raw SIS term records and upserts them. Records without a
// usable id are counted as skipped, not failed; the feed has always carried
// some junk rows.
func (s *termService) Import(ctx context.Context, raws []map[string]any) (int, int, error) {
	if len(raws) == 0 {
		return 0, 0, apperrors.NewValidationError("terms payload is empty")
	}

	imported, skipped := 0, 0
	for _, raw := range raws {
		norm, ok := sisterm.Normalize(raw)
		if !ok {
			skipped++
			continue
		}

		rawJSON, err := json.Marshal(raw)
		if err != nil {
			skipped++
			continue
		}

		term := &models.Term{
			SISTermID: norm.ID,
			Name:      norm.Name,
			IsActive:  norm.Active,
			Raw:       rawJSON,
		}
		if !norm.StartDate.IsZero() {
			start := norm.StartDate
			term.StartDate = &start
		}

		if err := s.terms.Upsert(ctx, term); err != nil {
			return imported, skipped, fmt.Errorf("error importing term %s: %w", norm.ID, err)
		}
		imported++
	}

	s.logger.Info().Int("imported", imported).Int("skipped", skipped).Msg("Term import finished")
	return imported, skipped, nil
}

// GetAll retrieves all terms in feed order
func (s *termService) GetAll(ctx context.Context) ([]*models.Term, error) {
	return s.terms.GetAll(ctx)
}

// GetByID retrieves one term
func (s *termService) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	return s.terms.GetByID(ctx, id)
}

// DefaultTerm resolves the default term over the stored feed records: the
// first active term in feed order, otherwise the most recent start date.
// Returns nil when no term is usable; the dashboard then renders without a
// term filter.
func (s *termService) DefaultTerm(ctx context.Context) (*models.Term, error) {
	terms, err := s.terms.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading terms: %w", err)
	}
	if len(terms) == 0 {
		return nil, nil
	}

	raws := make([]map[string]any, 0, len(terms))
	for _, t := range terms {
		var raw map[string]any
		if len(t.Raw) > 0 {
			if err := json.Unmarshal(t.Raw, &raw); err != nil {
				raw = nil
			}
		}
		if raw == nil {
			// Row predates raw capture; rebuild a record from the columns.
			raw = map[string]any{"is_active": t.IsActive}
			if t.StartDate != nil {
				raw["start_date"] = t.StartDate.Format(time.DateOnly)
			}
		}
		// The resolver must hand back an id we can map onto our row.
		raw["term_id"] = t.SISTermID
		raws = append(raws, raw)
	}

	defaultID := sisterm.PickDefault(raws)
	if defaultID == "" {
		return nil, nil
	}
	for _, t := range terms {
		if t.SISTermID == defaultID {
			return t, nil
		}
	}
	return nil, nil
}
