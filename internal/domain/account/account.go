package account

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phoenixvc/mystira-backend/internal/data/convert"
)

// Subscription is an owned sub-object serialized into a single JSON
// column on the account row.
type Subscription struct {
	Tier               string             `json:"tier"`
	PurchasedScenarios convert.StringList `json:"purchasedScenarios"`
	ExpiresAt          *time.Time         `json:"expiresAt,omitempty"`
}

func (Subscription) GormDataType() string { return "jsonb" }

func (s Subscription) Value() (driver.Value, error) { return convert.JSONValue(s) }

func (s *Subscription) Scan(src interface{}) error {
	var out Subscription
	if !convert.JSONScan("Subscription", src, &out) {
		*s = Subscription{}
		return nil
	}
	*s = out
	return nil
}

// Settings holds per-account preference lists keyed case-insensitively
// (e.g. "ContentFilters", "PreferredThemes").
type Settings struct {
	Preferences convert.FoldedStringListMap `json:"preferences"`
	Locale      string                      `json:"locale"`
}

func (Settings) GormDataType() string { return "jsonb" }

func (s Settings) Value() (driver.Value, error) { return convert.JSONValue(s) }

func (s *Settings) Scan(src interface{}) error {
	var out Settings
	if !convert.JSONScan("Settings", src, &out) {
		*s = Settings{}
		return nil
	}
	*s = out
	return nil
}

// Account is the primary transactional entity. Its game sessions hang off
// it by account ID; the cascade is enforced only in the relational schema
// because the document-store copy has no referential integrity.
type Account struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID   string             `gorm:"uniqueIndex;not null;column:external_id" json:"externalId"`
	Email        string             `gorm:"uniqueIndex;not null;column:email" json:"email"`
	DisplayName  string             `gorm:"column:display_name" json:"displayName"`
	ProfileIDs   convert.StringList `gorm:"column:profile_ids;type:text" json:"profileIds"`
	Subscription Subscription       `gorm:"column:subscription;type:jsonb" json:"subscription"`
	Settings     Settings           `gorm:"column:settings;type:jsonb" json:"settings"`
	CreatedAt    time.Time          `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time          `gorm:"not null" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "accounts" }
