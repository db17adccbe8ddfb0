package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phoenixvc/mystira-backend/internal/data/docstore"
	"github.com/phoenixvc/mystira-backend/internal/data/repos"
	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

type AccountService interface {
	Register(ctx context.Context, externalID, email, displayName string) (*types.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Account, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings types.Settings) (*types.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type accountService struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.All
}

func NewAccountService(db *gorm.DB, baseLog *logger.Logger, allRepos repos.All) AccountService {
	return &accountService{
		db:    db,
		log:   baseLog.With("service", "AccountService"),
		repos: allRepos,
	}
}

func (s *accountService) Register(ctx context.Context, externalID, email, displayName string) (*types.Account, error) {
	if externalID == "" || email == "" {
		return nil, fmt.Errorf("account: external id and email are required")
	}

	row := &types.Account{
		ID:          uuid.New(),
		ExternalID:  externalID,
		Email:       email,
		DisplayName: displayName,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := s.repos.Accounts.EmailExists(dbc, email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("account: email %q already registered", email)
		}
		if err := s.repos.Accounts.Create(dbc, row); err != nil {
			return err
		}
		return appendIntent(dbc, s.repos.SyncLog, docstore.EntityAccount, row.ID.String(), types.SyncOpInsert, row)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *accountService) GetByID(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	return s.repos.Accounts.GetByID(dbctx.Context{Ctx: ctx}, id)
}

// UpdateSettings persists only when the settings actually changed; the
// folded-map equality makes a re-send of identical preferences a no-op
// with no outbox traffic.
func (s *accountService) UpdateSettings(ctx context.Context, id uuid.UUID, settings types.Settings) (*types.Account, error) {
	var updated *types.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.repos.Accounts.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("account: %s not found", id)
		}
		if row.Settings.Locale == settings.Locale && row.Settings.Preferences.Equal(settings.Preferences) {
			updated = row
			return nil
		}
		row.Settings = settings
		if err := s.repos.Accounts.Update(dbc, row); err != nil {
			return err
		}
		updated = row
		return appendIntent(dbc, s.repos.SyncLog, docstore.EntityAccount, row.ID.String(), types.SyncOpUpdate, row)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the account; the relational schema cascades to its game
// sessions, and matching delete intents keep the document-store copies in
// step (the document store has no referential integrity of its own).
func (s *accountService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.repos.Accounts.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}

		sessions, err := s.repos.GameSessions.ListByAccount(dbc, id)
		if err != nil {
			return err
		}

		if err := s.repos.Accounts.Delete(dbc, id); err != nil {
			return err
		}

		for _, sess := range sessions {
			if err := appendIntent(dbc, s.repos.SyncLog, docstore.EntityGameSession, sess.ID.String(), types.SyncOpDelete, sess); err != nil {
				return err
			}
		}
		return appendIntent(dbc, s.repos.SyncLog, docstore.EntityAccount, id.String(), types.SyncOpDelete, row)
	})
}
