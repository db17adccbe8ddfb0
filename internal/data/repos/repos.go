package repos

import (
	"gorm.io/gorm"

	"github.com/phoenixvc/mystira-backend/internal/data/repos/account"
	"github.com/phoenixvc/mystira-backend/internal/data/repos/catalog"
	"github.com/phoenixvc/mystira-backend/internal/data/repos/outbox"
	"github.com/phoenixvc/mystira-backend/internal/data/repos/session"
	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

type AccountRepo = account.AccountRepo
type GameSessionRepo = session.GameSessionRepo
type ScoreRepo = session.ScoreRepo
type SyncLogRepo = outbox.SyncLogRepo
type SeedStatusRepo = catalog.SeedStatusRepo

type CompassAxisRepo = catalog.Repo[types.CompassAxis]
type ArchetypeRepo = catalog.Repo[types.Archetype]
type EchoTypeRepo = catalog.Repo[types.EchoType]
type FantasyThemeRepo = catalog.Repo[types.FantasyTheme]
type AgeGroupRepo = catalog.Repo[types.AgeGroup]

// All bundles every repository over one database handle.
type All struct {
	Accounts     AccountRepo
	GameSessions GameSessionRepo
	Scores       ScoreRepo
	SyncLog      SyncLogRepo
	SeedStatus   SeedStatusRepo

	CompassAxes   CompassAxisRepo
	Archetypes    ArchetypeRepo
	EchoTypes     EchoTypeRepo
	FantasyThemes FantasyThemeRepo
	AgeGroups     AgeGroupRepo
}

func New(db *gorm.DB, baseLog *logger.Logger) All {
	return All{
		Accounts:     account.NewAccountRepo(db, baseLog),
		GameSessions: session.NewGameSessionRepo(db, baseLog),
		Scores:       session.NewScoreRepo(db, baseLog),
		SyncLog:      outbox.NewSyncLogRepo(db, baseLog),
		SeedStatus:   catalog.NewSeedStatusRepo(db, baseLog),

		CompassAxes:   catalog.NewRepo[types.CompassAxis](db, baseLog, types.CatalogCompassAxis),
		Archetypes:    catalog.NewRepo[types.Archetype](db, baseLog, types.CatalogArchetype),
		EchoTypes:     catalog.NewRepo[types.EchoType](db, baseLog, types.CatalogEchoType),
		FantasyThemes: catalog.NewRepo[types.FantasyTheme](db, baseLog, types.CatalogFantasyTheme),
		AgeGroups:     catalog.NewRepo[types.AgeGroup](db, baseLog, types.CatalogAgeGroup),
	}
}
