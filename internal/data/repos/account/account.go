package account

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

type AccountRepo interface {
	Create(dbc dbctx.Context, row *types.Account) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Account, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.Account, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	Update(dbc dbctx.Context, row *types.Account) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type accountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return &accountRepo{db: db, log: baseLog.With("repo", "AccountRepo")}
}

func (r *accountRepo) conn(dbc dbctx.Context) *gorm.DB {
	tx := r.db
	if dbc.Tx != nil {
		tx = dbc.Tx
	}
	return tx.WithContext(dbc.Ctx)
}

func (r *accountRepo) Create(dbc dbctx.Context, row *types.Account) error {
	if row == nil {
		return nil
	}
	return r.conn(dbc).Create(row).Error
}

func (r *accountRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Account, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Account
	err := r.conn(dbc).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *accountRepo) GetByEmail(dbc dbctx.Context, email string) (*types.Account, error) {
	if email == "" {
		return nil, nil
	}
	var row types.Account
	err := r.conn(dbc).Where("email = ?", email).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *accountRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := r.conn(dbc).
		Model(&types.Account{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *accountRepo) Update(dbc dbctx.Context, row *types.Account) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return r.conn(dbc).Save(row).Error
}

// Delete hard-deletes the account row; the relational schema cascades to
// its game sessions.
func (r *accountRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.conn(dbc).Unscoped().Where("id = ?", id).Delete(&types.Account{}).Error
}
