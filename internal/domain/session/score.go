package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/phoenixvc/mystira-backend/internal/data/convert"
)

// PlayerScenarioScore is the analytical rollup keyed by (profileId,
// scenarioId). GameSessionID nulls out when the session is deleted;
// score history outlives sessions.
type PlayerScenarioScore struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID     string             `gorm:"not null;uniqueIndex:idx_profile_scenario;column:profile_id" json:"profileId"`
	ScenarioID    string             `gorm:"not null;uniqueIndex:idx_profile_scenario;column:scenario_id" json:"scenarioId"`
	GameSessionID *uuid.UUID         `gorm:"type:uuid;index;column:game_session_id" json:"gameSessionId,omitempty"`
	AxisScores    convert.AxisTotals `gorm:"column:axis_scores;type:jsonb" json:"axisScores"`
	CreatedAt     time.Time          `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time          `gorm:"not null" json:"updatedAt"`
}

func (PlayerScenarioScore) TableName() string { return "player_scenario_scores" }
