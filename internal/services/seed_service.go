package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/phoenixvc/mystira-backend/internal/clients/redis"
	"github.com/phoenixvc/mystira-backend/internal/data/repos"
	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/ids"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
	"github.com/phoenixvc/mystira-backend/internal/seed"
)

const seedLockName = "master-data"
const seedLockTTL = 5 * time.Minute

// SeedService populates the reference catalogs exactly once. Each catalog
// is guarded by a bounded fetch (at most one row, checked for presence);
// a populated catalog is skipped wholesale. Source problems (missing
// file, duplicate semantic keys) skip that one catalog with a warning;
// database errors abort, because running with partially-seeded reference
// data should fail startup loudly.
type SeedService interface {
	SeedAll(ctx context.Context) error
}

type seedService struct {
	db         *gorm.DB
	log        *logger.Logger
	repos      repos.All
	loader     seed.Loader
	classifier *seed.Classifier
	lock       redisclient.SeedLock
}

// NewSeedService builds the seeder. lock may be nil when no coordination
// backend is configured; single-instance deployments do not need one.
func NewSeedService(
	db *gorm.DB,
	baseLog *logger.Logger,
	allRepos repos.All,
	loader seed.Loader,
	classifier *seed.Classifier,
	lock redisclient.SeedLock,
) SeedService {
	return &seedService{
		db:         db,
		log:        baseLog.With("service", "SeedService"),
		repos:      allRepos,
		loader:     loader,
		classifier: classifier,
		lock:       lock,
	}
}

func (s *seedService) SeedAll(ctx context.Context) error {
	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, seedLockName, seedLockTTL)
		if err != nil {
			return fmt.Errorf("seed: acquire lock: %w", err)
		}
		if !acquired {
			s.log.Info("Another instance is seeding, skipping")
			return nil
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), seedLockName); err != nil {
				s.log.Warn("Failed to release seed lock", "error", err)
			}
		}()
	}

	steps := []struct {
		catalog string
		run     func(ctx context.Context) error
	}{
		{types.CatalogCompassAxis, s.seedCompassAxes},
		{types.CatalogArchetype, s.seedArchetypes},
		{types.CatalogEchoType, s.seedEchoTypes},
		{types.CatalogFantasyTheme, s.seedFantasyThemes},
		{types.CatalogAgeGroup, s.seedAgeGroups},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			if errors.Is(err, seed.ErrSourceNotFound) {
				s.log.Warn("Catalog source missing, skipping", "catalog", step.catalog, "error", err)
				continue
			}
			if isSourceError(err) {
				s.log.Warn("Catalog source rejected, skipping", "catalog", step.catalog, "error", err)
				continue
			}
			return fmt.Errorf("seed %s: %w", step.catalog, err)
		}
	}
	return nil
}

// sourceError wraps loader validation failures so SeedAll can tell "bad
// input file" from "the database broke".
type sourceError struct{ err error }

func (e sourceError) Error() string { return e.err.Error() }
func (e sourceError) Unwrap() error { return e.err }

func isSourceError(err error) bool {
	var se sourceError
	return errors.As(err, &se)
}

func (s *seedService) seedCompassAxes(ctx context.Context) error {
	return seedCatalog(ctx, s, types.CatalogCompassAxis, "compass_axes.json", s.repos.CompassAxes,
		func(rec seed.CatalogRecord) *types.CompassAxis {
			return &types.CompassAxis{
				ID:          ids.Generate(types.CatalogCompassAxis, rec.Value),
				Name:        rec.Value,
				Description: rec.Description,
			}
		})
}

func (s *seedService) seedArchetypes(ctx context.Context) error {
	return seedCatalog(ctx, s, types.CatalogArchetype, "archetypes.json", s.repos.Archetypes,
		func(rec seed.CatalogRecord) *types.Archetype {
			return &types.Archetype{
				ID:          ids.Generate(types.CatalogArchetype, rec.Value),
				Name:        rec.Value,
				Description: rec.Description,
			}
		})
}

func (s *seedService) seedEchoTypes(ctx context.Context) error {
	return seedCatalog(ctx, s, types.CatalogEchoType, "echo_types.json", s.repos.EchoTypes,
		func(rec seed.CatalogRecord) *types.EchoType {
			return &types.EchoType{
				ID:          ids.Generate(types.CatalogEchoType, rec.Value),
				Name:        rec.Value,
				Description: rec.Description,
				Category:    s.classifier.Classify(rec.Value),
			}
		})
}

func (s *seedService) seedFantasyThemes(ctx context.Context) error {
	return seedCatalog(ctx, s, types.CatalogFantasyTheme, "fantasy_themes.json", s.repos.FantasyThemes,
		func(rec seed.CatalogRecord) *types.FantasyTheme {
			return &types.FantasyTheme{
				ID:          ids.Generate(types.CatalogFantasyTheme, rec.Value),
				Name:        rec.Value,
				Description: rec.Description,
			}
		})
}

func (s *seedService) seedAgeGroups(ctx context.Context) error {
	return seedCatalog(ctx, s, types.CatalogAgeGroup, "age_groups.json", s.repos.AgeGroups,
		func(rec seed.CatalogRecord) *types.AgeGroup {
			return &types.AgeGroup{
				ID:         ids.Generate(types.CatalogAgeGroup, rec.Value),
				Name:       rec.Name,
				Value:      rec.Value,
				MinimumAge: rec.MinimumAge,
				MaximumAge: rec.MaximumAge,
			}
		})
}

// seedCatalog is the shared per-catalog flow: bounded existence check,
// source load, entity construction with deterministic IDs, then one
// transaction covering the bulk insert, the seed-status marker and the
// outbox mirror intents for the document store.
func seedCatalog[T any](
	ctx context.Context,
	s *seedService,
	catalogTag, filename string,
	repo interface {
		CreateMany(dbc dbctx.Context, rows []*T) error
		FetchOne(dbc dbctx.Context) (*T, error)
	},
	build func(rec seed.CatalogRecord) *T,
) error {
	existing, err := repo.FetchOne(dbctx.Context{Ctx: ctx})
	if err != nil {
		return err
	}
	if existing != nil {
		s.log.Debug("Catalog already seeded, skipping", "catalog", catalogTag)
		return nil
	}

	records, err := s.loader.Load(filename)
	if err != nil {
		if errors.Is(err, seed.ErrSourceNotFound) {
			return err
		}
		return sourceError{err: err}
	}

	rows := make([]*T, 0, len(records))
	for _, rec := range records {
		rows = append(rows, build(rec))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := repo.CreateMany(dbc, rows); err != nil {
			return err
		}
		if err := s.repos.SeedStatus.MarkSeeded(dbc, catalogTag, len(rows)); err != nil {
			return err
		}
		for i, row := range rows {
			payload, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("marshal %s payload: %w", catalogTag, err)
			}
			entry := &types.SyncLogEntry{
				EntityType:  catalogTag,
				EntityID:    ids.Generate(catalogTag, records[i].Value).String(),
				Operation:   types.SyncOpInsert,
				SourceStore: types.SyncSourceRelational,
				Payload:     datatypes.JSON(payload),
			}
			if err := s.repos.SyncLog.Append(dbc, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Catalog seeded", "catalog", catalogTag, "records", len(rows))
	return nil
}
