package session

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

type GameSessionRepo interface {
	Create(dbc dbctx.Context, row *types.GameSession) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GameSession, error)
	ListByAccount(dbc dbctx.Context, accountID uuid.UUID) ([]*types.GameSession, error)
	ListByProfile(dbc dbctx.Context, profileID string) ([]*types.GameSession, error)
	Update(dbc dbctx.Context, row *types.GameSession) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type gameSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGameSessionRepo(db *gorm.DB, baseLog *logger.Logger) GameSessionRepo {
	return &gameSessionRepo{db: db, log: baseLog.With("repo", "GameSessionRepo")}
}

func (r *gameSessionRepo) conn(dbc dbctx.Context) *gorm.DB {
	tx := r.db
	if dbc.Tx != nil {
		tx = dbc.Tx
	}
	return tx.WithContext(dbc.Ctx)
}

func (r *gameSessionRepo) Create(dbc dbctx.Context, row *types.GameSession) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Create(row).Error
}

func (r *gameSessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.GameSession, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.GameSession
	err := r.conn(dbc).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *gameSessionRepo) ListByAccount(dbc dbctx.Context, accountID uuid.UUID) ([]*types.GameSession, error) {
	var rows []*types.GameSession
	if accountID == uuid.Nil {
		return rows, nil
	}
	if err := r.conn(dbc).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gameSessionRepo) ListByProfile(dbc dbctx.Context, profileID string) ([]*types.GameSession, error) {
	var rows []*types.GameSession
	if profileID == "" {
		return rows, nil
	}
	if err := r.conn(dbc).
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gameSessionRepo) Update(dbc dbctx.Context, row *types.GameSession) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return r.conn(dbc).Save(row).Error
}

func (r *gameSessionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.conn(dbc).Where("id = ?", id).Delete(&types.GameSession{}).Error
}
