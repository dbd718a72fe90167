package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusmetrics/ploboard/internal/app/models"
)

// AuditRepository appends and reads the administrative audit trail
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

// Record appends one audit event
func (r *AuditRepository) Record(ctx context.Context, event *models.AuditEvent) error {
	query := `
		INSERT INTO audit_events (actor_id, action, entity, entity_id, changed_fields)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		event.ActorID, event.Action, event.Entity, event.EntityID, event.ChangedFields,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording audit event: %w", err)
	}

	return nil
}

// ListRecent retrieves the newest events, optionally filtered by entity
func (r *AuditRepository) ListRecent(ctx context.Context, entity string, limit int) ([]*models.AuditEvent, error) {
	query := `
		SELECT id, actor_id, action, entity, entity_id, changed_fields, created_at
		FROM audit_events
		WHERE ($1 = '' OR entity = $1)
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, entity, limit)
	if err != nil {
		return nil, fmt.Errorf("error retrieving audit events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.AuditEvent, 0)
	for rows.Next() {
		var event models.AuditEvent
		if err := rows.Scan(
			&event.ID,
			&event.ActorID,
			&event.Action,
			&event.Entity,
			&event.EntityID,
			&event.ChangedFields,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
