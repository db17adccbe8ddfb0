package session

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"

	"github.com/phoenixvc/mystira-backend/internal/data/convert"
)

type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	StatusAbandoned  Status = "Abandoned"
)

// CompassDelta is the per-axis effect of a single choice.
type CompassDelta struct {
	Axis  string  `json:"axis"`
	Delta float64 `json:"delta"`
}

// ChoiceRecord is one entry of the ordered choice history.
type ChoiceRecord struct {
	SceneID   string         `json:"sceneId"`
	ChoiceID  string         `json:"choiceId"`
	Text      string         `json:"text"`
	Deltas    []CompassDelta `json:"deltas,omitempty"`
	ChosenAt  time.Time      `json:"chosenAt"`
	ProfileID string         `json:"profileId,omitempty"`
}

type ChoiceList []ChoiceRecord

func (ChoiceList) GormDataType() string { return "jsonb" }

func (l ChoiceList) Value() (driver.Value, error) {
	if l == nil {
		return convert.JSONValue(ChoiceList{})
	}
	return convert.JSONValue([]ChoiceRecord(l))
}

func (l *ChoiceList) Scan(src interface{}) error {
	out := []ChoiceRecord{}
	if !convert.JSONScan("ChoiceList", src, &out) {
		*l = ChoiceList{}
		return nil
	}
	*l = ChoiceList(out)
	return nil
}

// EchoRecord captures a remembered player action surfaced back into the
// narrative.
type EchoRecord struct {
	EchoType   string    `json:"echoType"`
	SceneID    string    `json:"sceneId"`
	OccurredAt time.Time `json:"occurredAt"`
}

type EchoList []EchoRecord

func (EchoList) GormDataType() string { return "jsonb" }

func (l EchoList) Value() (driver.Value, error) {
	if l == nil {
		return convert.JSONValue(EchoList{})
	}
	return convert.JSONValue([]EchoRecord(l))
}

func (l *EchoList) Scan(src interface{}) error {
	out := []EchoRecord{}
	if !convert.JSONScan("EchoList", src, &out) {
		*l = EchoList{}
		return nil
	}
	*l = EchoList(out)
	return nil
}

// PlayerAssignment nests inside a character assignment.
type PlayerAssignment struct {
	ProfileID  string    `json:"profileId"`
	PlayerName string    `json:"playerName"`
	AssignedAt time.Time `json:"assignedAt"`
}

type CharacterAssignment struct {
	CharacterID string            `json:"characterId"`
	Archetype   string            `json:"archetype"`
	Player      *PlayerAssignment `json:"player,omitempty"`
}

type CharacterAssignmentList []CharacterAssignment

func (CharacterAssignmentList) GormDataType() string { return "jsonb" }

func (l CharacterAssignmentList) Value() (driver.Value, error) {
	if l == nil {
		return convert.JSONValue(CharacterAssignmentList{})
	}
	return convert.JSONValue([]CharacterAssignment(l))
}

func (l *CharacterAssignmentList) Scan(src interface{}) error {
	out := []CharacterAssignment{}
	if !convert.JSONScan("CharacterAssignmentList", src, &out) {
		*l = CharacterAssignmentList{}
		return nil
	}
	*l = CharacterAssignmentList(out)
	return nil
}

// Equal compares rosters entry by entry, including nested player slots.
func (l CharacterAssignmentList) Equal(other CharacterAssignmentList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		a, b := l[i], other[i]
		if a.CharacterID != b.CharacterID || a.Archetype != b.Archetype {
			return false
		}
		if (a.Player == nil) != (b.Player == nil) {
			return false
		}
		if a.Player != nil && *a.Player != *b.Player {
			return false
		}
	}
	return true
}

// GameSession is a player's active or historical playthrough. AccountID
// must be non-null: it is the physical partition key of the session
// container in the document store. ProfileID is a cross-store reference
// (profiles live only in the document store) and is deliberately not
// foreign-keyed.
type GameSession struct {
	ID                   uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID            uuid.UUID               `gorm:"type:uuid;not null;index;column:account_id" json:"accountId"`
	ScenarioID           string                  `gorm:"not null;index;column:scenario_id" json:"scenarioId"`
	ProfileID            string                  `gorm:"index;column:profile_id" json:"profileId"`
	Status               Status                  `gorm:"not null;default:'NotStarted';column:status" json:"status"`
	CurrentSceneID       string                  `gorm:"column:current_scene_id" json:"currentSceneId"`
	PlayerNames          convert.StringList      `gorm:"column:player_names;type:text" json:"playerNames"`
	ChoiceHistory        ChoiceList              `gorm:"column:choice_history;type:jsonb" json:"choiceHistory"`
	EchoHistory          EchoList                `gorm:"column:echo_history;type:jsonb" json:"echoHistory"`
	CompassProgress      convert.AxisTotals      `gorm:"column:compass_progress;type:jsonb" json:"compassProgress"`
	Achievements         convert.StringList      `gorm:"column:achievements;type:text" json:"achievements"`
	CharacterAssignments CharacterAssignmentList `gorm:"column:character_assignments;type:jsonb" json:"characterAssignments"`
	StartedAt            *time.Time              `gorm:"column:started_at" json:"startedAt,omitempty"`
	EndedAt              *time.Time              `gorm:"column:ended_at" json:"endedAt,omitempty"`
	CreatedAt            time.Time               `gorm:"not null" json:"createdAt"`
	UpdatedAt            time.Time               `gorm:"not null" json:"updatedAt"`
}

func (GameSession) TableName() string { return "game_sessions" }

// Terminal reports whether the session has reached an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}
