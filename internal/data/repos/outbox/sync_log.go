package outbox

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

type SyncLogRepo interface {
	Append(dbc dbctx.Context, row *types.SyncLogEntry) error
	ListPending(dbc dbctx.Context, limit int) ([]*types.SyncLogEntry, error)
	MarkSynced(dbc dbctx.Context, id uuid.UUID) error
	MarkFailed(dbc dbctx.Context, id uuid.UUID, cause string, terminal bool) error
	CountByStatus(dbc dbctx.Context, status string) (int64, error)
}

type syncLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSyncLogRepo(db *gorm.DB, baseLog *logger.Logger) SyncLogRepo {
	return &syncLogRepo{db: db, log: baseLog.With("repo", "SyncLogRepo")}
}

func (r *syncLogRepo) conn(dbc dbctx.Context) *gorm.DB {
	tx := r.db
	if dbc.Tx != nil {
		tx = dbc.Tx
	}
	return tx.WithContext(dbc.Ctx)
}

// Append writes one intent row. Callers invoke this inside the same
// transaction as the primary write so the intent commits or rolls back
// with it.
func (r *syncLogRepo) Append(dbc dbctx.Context, row *types.SyncLogEntry) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = types.SyncStatusPending
	}
	return r.conn(dbc).Create(row).Error
}

// ListPending returns pending rows oldest first so replay preserves the
// original write order per entity.
func (r *syncLogRepo) ListPending(dbc dbctx.Context, limit int) ([]*types.SyncLogEntry, error) {
	var rows []*types.SyncLogEntry
	q := r.conn(dbc).
		Where("status = ?", types.SyncStatusPending).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *syncLogRepo) MarkSynced(dbc dbctx.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.conn(dbc).
		Model(&types.SyncLogEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     types.SyncStatusSynced,
			"synced_at":  now,
			"last_error": "",
		}).Error
}

// MarkFailed bumps the retry counter. Non-terminal failures go back to
// pending for the next sweep; terminal ones stay failed for out-of-band
// reconciliation.
func (r *syncLogRepo) MarkFailed(dbc dbctx.Context, id uuid.UUID, cause string, terminal bool) error {
	status := types.SyncStatusPending
	if terminal {
		status = types.SyncStatusFailed
	}
	return r.conn(dbc).
		Model(&types.SyncLogEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  cause,
		}).Error
}

func (r *syncLogRepo) CountByStatus(dbc dbctx.Context, status string) (int64, error) {
	var count int64
	if err := r.conn(dbc).
		Model(&types.SyncLogEntry{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
