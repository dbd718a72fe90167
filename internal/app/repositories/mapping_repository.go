package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusmetrics/ploboard/internal/app/models"
	"github.com/campusmetrics/ploboard/internal/db"
	"github.com/campusmetrics/ploboard/internal/pkg/apperrors"
	"github.com/campusmetrics/ploboard/internal/pkg/dberrors"
)

// MappingRepository handles database operations for outcome mappings.
// The schema enforces the state machine: a partial unique index allows at
// most one draft row per program, and (program_id, version) is unique for
// published rows.
type MappingRepository struct {
	db *pgxpool.Pool
}

// NewMappingRepository creates a new mapping repository
func NewMappingRepository(db *pgxpool.Pool) *MappingRepository {
	return &MappingRepository{
		db: db,
	}
}

const mappingColumns = `id, program_id, status, version, created_at, published_at`

func scanMapping(row pgx.Row) (*models.OutcomeMapping, error) {
	var m models.OutcomeMapping
	err := row.Scan(
		&m.ID,
		&m.ProgramID,
		&m.Status,
		&m.Version,
		&m.CreatedAt,
		&m.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID retrieves a mapping by ID
func (r *MappingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OutcomeMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM outcome_mappings WHERE id = $1`

	m, err := scanMapping(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMappingNotFound
		}
		return nil, fmt.Errorf("error retrieving mapping: %w", err)
	}

	return m, nil
}

// GetDraft retrieves the program's open draft, or nil when none exists
func (r *MappingRepository) GetDraft(ctx context.Context, programID int64) (*models.OutcomeMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM outcome_mappings WHERE program_id = $1 AND status = 'draft'`

	m, err := scanMapping(r.db.QueryRow(ctx, query, programID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving draft: %w", err)
	}

	return m, nil
}

// GetLatestPublished retrieves the highest-version published mapping for a
// program, or nil when nothing has been published yet
func (r *MappingRepository) GetLatestPublished(ctx context.Context, programID int64) (*models.OutcomeMapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM outcome_mappings
		WHERE program_id = $1 AND status = 'published'
		ORDER BY version DESC
		LIMIT 1
	`

	m, err := scanMapping(r.db.QueryRow(ctx, query, programID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving published mapping: %w", err)
	}

	return m, nil
}

// EnsureDraft returns the program's open draft, creating one if none exists.
// Two racing callers hit the partial unique index; the loser re-reads the
// winner's row, so both get the same draft id.
func (r *MappingRepository) EnsureDraft(ctx context.Context, programID int64) (*models.OutcomeMapping, error) {
	if draft, err := r.GetDraft(ctx, programID); err != nil || draft != nil {
		return draft, err
	}

	query := `
		INSERT INTO outcome_mappings (id, program_id, status)
		VALUES ($1, $2, 'draft')
		RETURNING ` + mappingColumns

	m, err := scanMapping(r.db.QueryRow(ctx, query, uuid.New(), programID))
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return r.GetDraft(ctx, programID)
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrProgramNotFound
		}
		return nil, fmt.Errorf("error creating draft: %w", err)
	}

	return m, nil
}

// ListEntries retrieves a mapping's entries
func (r *MappingRepository) ListEntries(ctx context.Context, mappingID uuid.UUID) ([]*models.MappingEntry, error) {
	query := `
		SELECT mapping_id, program_outcome_id, course_outcome_id
		FROM mapping_entries
		WHERE mapping_id = $1
		ORDER BY program_outcome_id, course_outcome_id
	`

	rows, err := r.db.Query(ctx, query, mappingID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving mapping entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.MappingEntry, 0)
	for rows.Next() {
		var entry models.MappingEntry
		if err := rows.Scan(&entry.MappingID, &entry.ProgramOutcomeID, &entry.CourseOutcomeID); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// AddEntry inserts one entry into a draft
func (r *MappingRepository) AddEntry(ctx context.Context, entry *models.MappingEntry) error {
	query := `
		INSERT INTO mapping_entries (mapping_id, program_outcome_id, course_outcome_id)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(ctx, query, entry.MappingID, entry.ProgramOutcomeID, entry.CourseOutcomeID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEntryAlreadyMapped
		}
		return fmt.Errorf("error adding mapping entry: %w", err)
	}

	return nil
}

// RemoveEntry deletes one entry from a draft
func (r *MappingRepository) RemoveEntry(ctx context.Context, entry *models.MappingEntry) error {
	query := `
		DELETE FROM mapping_entries
		WHERE mapping_id = $1 AND program_outcome_id = $2 AND course_outcome_id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, entry.MappingID, entry.ProgramOutcomeID, entry.CourseOutcomeID)
	if err != nil {
		return fmt.Errorf("error removing mapping entry: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEntryNotFound
	}

	return nil
}

// Publish atomically turns a draft into the next published version.
// The whole transition happens in one transaction: the draft row is locked,
// an empty draft is rejected, and when baseVersion is supplied it must match
// the program's current published version or the publish is refused.
func (r *MappingRepository) Publish(ctx context.Context, draftID uuid.UUID, baseVersion *int) (*models.OutcomeMapping, error) {
	var published *models.OutcomeMapping

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		lockQuery := `SELECT ` + mappingColumns + ` FROM outcome_mappings WHERE id = $1 FOR UPDATE`
		draft, err := scanMapping(tx.QueryRow(ctx, lockQuery, draftID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrMappingNotFound
			}
			return fmt.Errorf("error locking draft: %w", err)
		}
		if draft.Status != models.MappingDraft {
			return apperrors.ErrMappingNotDraft
		}

		var entryCount int
		err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM mapping_entries WHERE mapping_id = $1`, draftID).Scan(&entryCount)
		if err != nil {
			return fmt.Errorf("error counting draft entries: %w", err)
		}
		if entryCount == 0 {
			return apperrors.ErrNothingToPublish
		}

		var currentVersion int
		err = tx.QueryRow(ctx, `
			SELECT COALESCE(MAX(version), 0)
			FROM outcome_mappings
			WHERE program_id = $1 AND status = 'published'`, draft.ProgramID).Scan(&currentVersion)
		if err != nil {
			return fmt.Errorf("error reading current version: %w", err)
		}

		if baseVersion != nil && *baseVersion != currentVersion {
			return apperrors.ErrMappingConflict
		}

		publishQuery := `
			UPDATE outcome_mappings
			SET status = 'published', version = $1, published_at = NOW()
			WHERE id = $2
			RETURNING ` + mappingColumns

		published, err = scanMapping(tx.QueryRow(ctx, publishQuery, currentVersion+1, draftID))
		if err != nil {
			return fmt.Errorf("error publishing draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return published, nil
}

// DeleteDraft discards an open draft and its entries
func (r *MappingRepository) DeleteDraft(ctx context.Context, draftID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM outcome_mappings WHERE id = $1 AND status = 'draft'`, draftID)
	if err != nil {
		return fmt.Errorf("error discarding draft: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMappingNotFound
	}

	return nil
}
