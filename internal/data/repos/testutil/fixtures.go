package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/phoenixvc/mystira-backend/internal/domain"
)

func SeedAccount(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.Account {
	tb.Helper()
	a := &types.Account{
		ID:          uuid.New(),
		ExternalID:  "ext-" + email,
		Email:       email,
		DisplayName: "Test Account",
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed account: %v", err)
	}
	return a
}

func SeedGameSession(tb testing.TB, ctx context.Context, tx *gorm.DB, accountID uuid.UUID, profileID string) *types.GameSession {
	tb.Helper()
	now := time.Now().UTC()
	gs := &types.GameSession{
		ID:         uuid.New(),
		AccountID:  accountID,
		ScenarioID: "scenario-1",
		ProfileID:  profileID,
		Status:     types.SessionInProgress,
		StartedAt:  &now,
	}
	if err := tx.WithContext(ctx).Create(gs).Error; err != nil {
		tb.Fatalf("seed game session: %v", err)
	}
	return gs
}

func SeedScore(tb testing.TB, ctx context.Context, tx *gorm.DB, profileID, scenarioID string, sessionID *uuid.UUID) *types.PlayerScenarioScore {
	tb.Helper()
	s := &types.PlayerScenarioScore{
		ID:            uuid.New(),
		ProfileID:     profileID,
		ScenarioID:    scenarioID,
		GameSessionID: sessionID,
		AxisScores:    types.AxisTotals{"honesty": 1},
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed score: %v", err)
	}
	return s
}
