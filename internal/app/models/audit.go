package models

import (
	"encoding/json"
	"time"
)

// AuditEvent records one mutation for the administrative audit trail.
// ChangedFields holds a JSON array of field names; upstream writers have
// produced garbage here before, so reads go through ParseChangedFields.
type AuditEvent struct {
	ID            int64     `json:"id" db:"id"`
	ActorID       *int64    `json:"actorId,omitempty" db:"actor_id"`
	Action        string    `json:"action" db:"action"`
	Entity        string    `json:"entity" db:"entity"`
	EntityID      string    `json:"entityId" db:"entity_id"`
	ChangedFields []byte    `json:"-" db:"changed_fields"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// Audit actions recorded by this service.
const (
	AuditMappingPublished = "mapping.published"
	AuditMappingDiscarded = "mapping.discarded"
	AuditEntryAdded       = "mapping.entry_added"
	AuditEntryRemoved     = "mapping.entry_removed"
	AuditOutcomeCreated   = "outcome.created"
	AuditOutcomeUpdated   = "outcome.updated"
	AuditOutcomeDeleted   = "outcome.deleted"
	AuditProgramUpdated   = "program.updated"
)

// ParseChangedFields decodes the changed-fields blob, degrading to an empty
// list on malformed input instead of surfacing a failure.
func ParseChangedFields(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var fields []string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return []string{}
	}
	return fields
}
