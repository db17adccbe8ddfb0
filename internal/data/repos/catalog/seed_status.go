package catalog

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

type SeedStatusRepo interface {
	Get(dbc dbctx.Context, catalog string) (*types.SeedStatus, error)
	MarkSeeded(dbc dbctx.Context, catalog string, recordCount int) error
}

type seedStatusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSeedStatusRepo(db *gorm.DB, baseLog *logger.Logger) SeedStatusRepo {
	return &seedStatusRepo{db: db, log: baseLog.With("repo", "SeedStatusRepo")}
}

func (r *seedStatusRepo) conn(dbc dbctx.Context) *gorm.DB {
	tx := r.db
	if dbc.Tx != nil {
		tx = dbc.Tx
	}
	return tx.WithContext(dbc.Ctx)
}

func (r *seedStatusRepo) Get(dbc dbctx.Context, catalog string) (*types.SeedStatus, error) {
	var row types.SeedStatus
	err := r.conn(dbc).Where("catalog = ?", catalog).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *seedStatusRepo) MarkSeeded(dbc dbctx.Context, catalog string, recordCount int) error {
	row := &types.SeedStatus{
		Catalog:     catalog,
		RecordCount: recordCount,
		SeededAt:    time.Now().UTC(),
	}
	return r.conn(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "catalog"}},
			DoUpdates: clause.AssignmentColumns([]string{"record_count", "seeded_at"}),
		}).
		Create(row).Error
}
