// Package outbox holds the cross-store reconciliation ledger. There is no
// atomic transaction spanning the relational and document stores, so every
// primary write commits an intent row alongside it; a background worker
// replays pending intents to the document store.
package outbox

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

const (
	StatusPending = "pending"
	StatusSynced  = "synced"
	StatusFailed  = "failed"
)

const (
	SourceRelational = "relational"
	SourceDocument   = "document"
)

// SyncLogEntry is one append-only row of the polyglot sync ledger. Payload
// is the canonical JSON snapshot of the entity at write time; replay never
// re-reads the source row, so a later delete cannot tear an earlier
// intent.
type SyncLogEntry struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType  string         `gorm:"not null;index;column:entity_type" json:"entityType"`
	EntityID    string         `gorm:"not null;index;column:entity_id" json:"entityId"`
	Operation   string         `gorm:"not null;column:operation" json:"operation"`
	SourceStore string         `gorm:"not null;column:source_store" json:"sourceStore"`
	Payload     datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`
	Status      string         `gorm:"not null;default:'pending';index;column:status" json:"status"`
	RetryCount  int            `gorm:"not null;default:0;column:retry_count" json:"retryCount"`
	LastError   string         `gorm:"column:last_error" json:"lastError,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updatedAt"`
	SyncedAt    *time.Time     `gorm:"column:synced_at" json:"syncedAt,omitempty"`
}

func (SyncLogEntry) TableName() string { return "_polyglot_sync_log" }
