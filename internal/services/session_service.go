package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phoenixvc/mystira-backend/internal/data/convert"
	"github.com/phoenixvc/mystira-backend/internal/data/docstore"
	"github.com/phoenixvc/mystira-backend/internal/data/repos"
	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

type SessionService interface {
	Start(ctx context.Context, accountID uuid.UUID, scenarioID, profileID string, playerNames []string) (*types.GameSession, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.GameSession, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*types.GameSession, error)
	RecordChoice(ctx context.Context, sessionID uuid.UUID, choice types.ChoiceRecord) (*types.GameSession, error)
	RecordEcho(ctx context.Context, sessionID uuid.UUID, echo types.EchoRecord) (*types.GameSession, error)
	AssignCharacters(ctx context.Context, sessionID uuid.UUID, assignments []types.CharacterAssignment) (*types.GameSession, error)
	AdvanceScene(ctx context.Context, sessionID uuid.UUID, sceneID string) (*types.GameSession, error)
	Complete(ctx context.Context, sessionID uuid.UUID) (*types.GameSession, error)
	Abandon(ctx context.Context, sessionID uuid.UUID) (*types.GameSession, error)
}

type sessionService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.All
}

func NewSessionService(db *gorm.DB, baseLog *logger.Logger, allRepos repos.All) SessionService {
	return &sessionService{
		db:    db,
		log:   baseLog.With("service", "SessionService"),
		repos: allRepos,
	}
}

func (s *sessionService) Start(ctx context.Context, accountID uuid.UUID, scenarioID, profileID string, playerNames []string) (*types.GameSession, error) {
	if accountID == uuid.Nil {
		return nil, fmt.Errorf("session: account id is required")
	}
	if scenarioID == "" {
		return nil, fmt.Errorf("session: scenario id is required")
	}

	now := time.Now().UTC()
	row := &types.GameSession{
		ID:          uuid.New(),
		AccountID:   accountID,
		ScenarioID:  scenarioID,
		ProfileID:   profileID,
		Status:      types.SessionInProgress,
		PlayerNames: convert.StringList(playerNames),
		StartedAt:   &now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		acct, err := s.repos.Accounts.GetByID(dbc, accountID)
		if err != nil {
			return err
		}
		if acct == nil {
			return fmt.Errorf("session: account %s not found", accountID)
		}
		if err := s.repos.GameSessions.Create(dbc, row); err != nil {
			return err
		}
		return appendIntent(dbc, s.repos.SyncLog, docstore.EntityGameSession, row.ID.String(), types.SyncOpInsert, row)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *sessionService) GetByID(ctx context.Context, id uuid.UUID) (*types.GameSession, error) {
	return s.repos.GameSessions.GetByID(dbctx.Context{Ctx: ctx}, id)
}

func (s *sessionService) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*types.GameSession, error) {
	return s.repos.GameSessions.ListByAccount(dbctx.Context{Ctx: ctx}, accountID)
}

// RecordChoice appends to the ordered choice history and folds the
// choice's compass deltas into the per-axis totals.
func (s *sessionService) RecordChoice(ctx context.Context, sessionID uuid.UUID, choice types.ChoiceRecord) (*types.GameSession, error) {
	return s.mutate(ctx, sessionID, func(row *types.GameSession) (bool, error) {
		if row.Status.Terminal() {
			return false, fmt.Errorf("session: %s is already %s", sessionID, row.Status)
		}
		if choice.ChosenAt.IsZero() {
			choice.ChosenAt = time.Now().UTC()
		}
		row.ChoiceHistory = append(row.ChoiceHistory, choice)
		if len(choice.Deltas) > 0 {
			totals := convert.AxisTotals{}
			for axis, score := range row.CompassProgress {
				totals[axis] = score
			}
			for _, delta := range choice.Deltas {
				totals[delta.Axis] += delta.Delta
			}
			row.CompassProgress = totals
		}
		if choice.SceneID != "" {
			row.CurrentSceneID = choice.SceneID
		}
		return true, nil
	})
}

// RecordEcho appends a surfaced echo to the session's echo history.
func (s *sessionService) RecordEcho(ctx context.Context, sessionID uuid.UUID, echo types.EchoRecord) (*types.GameSession, error) {
	return s.mutate(ctx, sessionID, func(row *types.GameSession) (bool, error) {
		if row.Status.Terminal() {
			return false, fmt.Errorf("session: %s is already %s", sessionID, row.Status)
		}
		if echo.OccurredAt.IsZero() {
			echo.OccurredAt = time.Now().UTC()
		}
		row.EchoHistory = append(row.EchoHistory, echo)
		return true, nil
	})
}

// AssignCharacters replaces the character roster; an identical roster is
// a no-op.
func (s *sessionService) AssignCharacters(ctx context.Context, sessionID uuid.UUID, assignments []types.CharacterAssignment) (*types.GameSession, error) {
	return s.mutate(ctx, sessionID, func(row *types.GameSession) (bool, error) {
		if row.Status.Terminal() {
			return false, fmt.Errorf("session: %s is already %s", sessionID, row.Status)
		}
		next := types.CharacterAssignmentList(assignments)
		if row.CharacterAssignments.Equal(next) {
			return false, nil
		}
		row.CharacterAssignments = next
		return true, nil
	})
}

// AdvanceScene moves the scene pointer; re-sending the current scene is a
// no-op with no write and no outbox traffic.
func (s *sessionService) AdvanceScene(ctx context.Context, sessionID uuid.UUID, sceneID string) (*types.GameSession, error) {
	return s.mutate(ctx, sessionID, func(row *types.GameSession) (bool, error) {
		if row.Status.Terminal() {
			return false, fmt.Errorf("session: %s is already %s", sessionID, row.Status)
		}
		if row.CurrentSceneID == sceneID {
			return false, nil
		}
		row.CurrentSceneID = sceneID
		return true, nil
	})
}

// Complete terminates the session and rolls its compass totals up into
// the per-(profile, scenario) score row.
func (s *sessionService) Complete(ctx context.Context, sessionID uuid.UUID) (*types.GameSession, error) {
	return s.terminate(ctx, sessionID, types.SessionCompleted)
}

func (s *sessionService) Abandon(ctx context.Context, sessionID uuid.UUID) (*types.GameSession, error) {
	return s.terminate(ctx, sessionID, types.SessionAbandoned)
}

func (s *sessionService) terminate(ctx context.Context, sessionID uuid.UUID, status types.SessionStatus) (*types.GameSession, error) {
	var updated *types.GameSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.repos.GameSessions.GetByID(dbc, sessionID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("session: %s not found", sessionID)
		}
		if row.Status == status {
			updated = row
			return nil
		}
		if row.Status.Terminal() {
			return fmt.Errorf("session: %s is already %s", sessionID, row.Status)
		}

		now := time.Now().UTC()
		row.Status = status
		row.EndedAt = &now
		if err := s.repos.GameSessions.Update(dbc, row); err != nil {
			return err
		}
		if err := appendIntent(dbc, s.repos.SyncLog, docstore.EntityGameSession, row.ID.String(), types.SyncOpUpdate, row); err != nil {
			return err
		}

		if status == types.SessionCompleted && row.ProfileID != "" {
			sessionID := row.ID
			score := &types.PlayerScenarioScore{
				ProfileID:     row.ProfileID,
				ScenarioID:    row.ScenarioID,
				GameSessionID: &sessionID,
				AxisScores:    row.CompassProgress,
			}
			if err := s.repos.Scores.Upsert(dbc, score); err != nil {
				return err
			}
			if err := appendIntent(dbc, s.repos.SyncLog, docstore.EntityScenarioScore, score.ID.String(), types.SyncOpUpdate, score); err != nil {
				return err
			}
		}

		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// mutate is the shared read-modify-write flow: apply reports whether the
// row actually changed; unchanged rows are neither written nor mirrored.
func (s *sessionService) mutate(ctx context.Context, sessionID uuid.UUID, apply func(row *types.GameSession) (bool, error)) (*types.GameSession, error) {
	var updated *types.GameSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.repos.GameSessions.GetByID(dbc, sessionID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("session: %s not found", sessionID)
		}

		changed, err := apply(row)
		if err != nil {
			return err
		}
		updated = row
		if !changed {
			return nil
		}
		if err := s.repos.GameSessions.Update(dbc, row); err != nil {
			return err
		}
		return appendIntent(dbc, s.repos.SyncLog, docstore.EntityGameSession, row.ID.String(), types.SyncOpUpdate, row)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
