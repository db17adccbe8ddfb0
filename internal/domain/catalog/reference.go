// Package catalog holds the immutable-after-seed reference entities. Rows
// are created once at startup by the master-data seeder with deterministic
// IDs; uniqueness of the lowercase semantic key is guaranteed by the ID
// derivation, not by a database constraint.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Catalog tags used as the entity-type component of deterministic IDs.
// These are part of the ID contract and must not change.
const (
	TagCompassAxis  = "compass-axis"
	TagArchetype    = "archetype"
	TagEchoType     = "echo-type"
	TagFantasyTheme = "fantasy-theme"
	TagAgeGroup     = "age-group"
)

type CompassAxis struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (CompassAxis) TableName() string { return "compass_axes" }

type Archetype struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Archetype) TableName() string { return "archetypes" }

// EchoType carries a derived category from the classification asset:
// moral, emotional, behavioral, social, cognitive, identity, meta, or
// "other" for unrecognized names.
type EchoType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Category    string    `gorm:"not null;index;column:category" json:"category"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (EchoType) TableName() string { return "echo_types" }

type FantasyTheme struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (FantasyTheme) TableName() string { return "fantasy_themes" }

type AgeGroup struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"not null;column:name" json:"name"`
	Value      string    `gorm:"uniqueIndex;not null;column:value" json:"value"`
	MinimumAge int       `gorm:"not null;column:minimum_age" json:"minimum_age"`
	MaximumAge int       `gorm:"not null;column:maximum_age" json:"maximum_age"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (AgeGroup) TableName() string { return "age_groups" }

// SeedStatus records per-catalog seed completion explicitly instead of
// inferring it from row counts alone.
type SeedStatus struct {
	Catalog     string    `gorm:"primaryKey;column:catalog" json:"catalog"`
	RecordCount int       `gorm:"not null;column:record_count" json:"record_count"`
	SeededAt    time.Time `gorm:"not null;column:seeded_at" json:"seeded_at"`
}

func (SeedStatus) TableName() string { return "seed_status" }
