package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/phoenixvc/mystira-backend/internal/domain"
)

// Models lists every relational entity in migration order.
func Models() []interface{} {
	return []interface{}{

		// Reference catalogs (seeded at startup)
		&types.CompassAxis{},
		&types.Archetype{},
		&types.EchoType{},
		&types.FantasyTheme{},
		&types.AgeGroup{},
		&types.SeedStatus{},

		// Transactional entities
		&types.Account{},
		&types.GameSession{},
		&types.PlayerScenarioScore{},

		// Cross-store reconciliation ledger
		&types.SyncLogEntry{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return addForeignKeys(db)
}

// addForeignKeys applies the relational-side referential rules explicitly.
// AutoMigrate runs with FK creation disabled so the cascade and set-null
// behavior is pinned here rather than inferred from struct tags. The
// profile_id columns are indexed but never foreign-keyed: profiles live
// only in the document store and the relational engine cannot enforce a
// cross-store reference.
func addForeignKeys(db *gorm.DB) error {
	if err := db.Exec(`
		ALTER TABLE "game_sessions"
		DROP CONSTRAINT IF EXISTS "fk_game_sessions_account_id";
	`).Error; err != nil {
		return fmt.Errorf("drop fk_game_sessions_account_id: %w", err)
	}
	if err := db.Exec(`
		ALTER TABLE "game_sessions"
		ADD CONSTRAINT "fk_game_sessions_account_id"
		FOREIGN KEY ("account_id")
		REFERENCES "accounts"("id")
		ON DELETE CASCADE
		ON UPDATE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("add fk_game_sessions_account_id: %w", err)
	}

	if err := db.Exec(`
		ALTER TABLE "player_scenario_scores"
		DROP CONSTRAINT IF EXISTS "fk_player_scenario_scores_game_session_id";
	`).Error; err != nil {
		return fmt.Errorf("drop fk_player_scenario_scores_game_session_id: %w", err)
	}
	if err := db.Exec(`
		ALTER TABLE "player_scenario_scores"
		ADD CONSTRAINT "fk_player_scenario_scores_game_session_id"
		FOREIGN KEY ("game_session_id")
		REFERENCES "game_sessions"("id")
		ON DELETE SET NULL
	`).Error; err != nil {
		return fmt.Errorf("add fk_player_scenario_scores_game_session_id: %w", err)
	}

	return nil
}
