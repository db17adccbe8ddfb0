// Package catalog holds the repositories for the seeded reference
// entities. The five catalogs share one access shape, so a single generic
// repo serves them all.
package catalog

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

// Repo is the catalog access surface. FetchOne is the existence probe:
// it fetches at most one row and the caller checks for nil. This bounded
// fetch is deliberate; naive exists/count shapes do not translate on
// every backing store this layer has had to run against, and the
// fetch-at-most-one form is safe everywhere.
type Repo[T any] interface {
	CreateMany(dbc dbctx.Context, rows []*T) error
	FetchOne(dbc dbctx.Context) (*T, error)
	GetAll(dbc dbctx.Context) ([]*T, error)
	Count(dbc dbctx.Context) (int64, error)
}

type repo[T any] struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo[T any](db *gorm.DB, baseLog *logger.Logger, name string) Repo[T] {
	return &repo[T]{db: db, log: baseLog.With("repo", fmt.Sprintf("CatalogRepo(%s)", name))}
}

func (r *repo[T]) conn(dbc dbctx.Context) *gorm.DB {
	tx := r.db
	if dbc.Tx != nil {
		tx = dbc.Tx
	}
	return tx.WithContext(dbc.Ctx)
}

func (r *repo[T]) CreateMany(dbc dbctx.Context, rows []*T) error {
	if len(rows) == 0 {
		return nil
	}
	return r.conn(dbc).Create(&rows).Error
}

func (r *repo[T]) FetchOne(dbc dbctx.Context) (*T, error) {
	var rows []*T
	if err := r.conn(dbc).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *repo[T]) GetAll(dbc dbctx.Context) ([]*T, error) {
	var rows []*T
	if err := r.conn(dbc).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo[T]) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	var model T
	if err := r.conn(dbc).Model(&model).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
