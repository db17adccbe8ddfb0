package session

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

type ScoreRepo interface {
	Upsert(dbc dbctx.Context, row *types.PlayerScenarioScore) error
	GetByProfileScenario(dbc dbctx.Context, profileID, scenarioID string) (*types.PlayerScenarioScore, error)
	ListByProfile(dbc dbctx.Context, profileID string) ([]*types.PlayerScenarioScore, error)
}

type scoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRepo {
	return &scoreRepo{db: db, log: baseLog.With("repo", "ScoreRepo")}
}

func (r *scoreRepo) conn(dbc dbctx.Context) *gorm.DB {
	tx := r.db
	if dbc.Tx != nil {
		tx = dbc.Tx
	}
	return tx.WithContext(dbc.Ctx)
}

func (r *scoreRepo) Upsert(dbc dbctx.Context, row *types.PlayerScenarioScore) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	err := r.conn(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "scenario_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"game_session_id", "axis_scores", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return err
	}
	// On conflict the freshly generated id loses to the existing row's;
	// reload so callers carry the persisted identity forward.
	var persisted types.PlayerScenarioScore
	err = r.conn(dbc).
		Where("profile_id = ? AND scenario_id = ?", row.ProfileID, row.ScenarioID).
		First(&persisted).Error
	if err != nil {
		return err
	}
	*row = persisted
	return nil
}

func (r *scoreRepo) GetByProfileScenario(dbc dbctx.Context, profileID, scenarioID string) (*types.PlayerScenarioScore, error) {
	if profileID == "" || scenarioID == "" {
		return nil, nil
	}
	var row types.PlayerScenarioScore
	err := r.conn(dbc).
		Where("profile_id = ? AND scenario_id = ?", profileID, scenarioID).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *scoreRepo) ListByProfile(dbc dbctx.Context, profileID string) ([]*types.PlayerScenarioScore, error) {
	var rows []*types.PlayerScenarioScore
	if profileID == "" {
		return rows, nil
	}
	if err := r.conn(dbc).
		Where("profile_id = ?", profileID).
		Order("scenario_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
