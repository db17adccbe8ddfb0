// Package domain re-exports the area model packages under one import,
// which keeps repo and service signatures short (imported as "types").
package domain

import (
	"github.com/phoenixvc/mystira-backend/internal/data/convert"
	"github.com/phoenixvc/mystira-backend/internal/domain/account"
	"github.com/phoenixvc/mystira-backend/internal/domain/catalog"
	"github.com/phoenixvc/mystira-backend/internal/domain/outbox"
	"github.com/phoenixvc/mystira-backend/internal/domain/session"
)

type StringList = convert.StringList
type AxisTotals = convert.AxisTotals
type FoldedStringListMap = convert.FoldedStringListMap

type Account = account.Account
type Subscription = account.Subscription
type Settings = account.Settings

type GameSession = session.GameSession
type SessionStatus = session.Status
type ChoiceRecord = session.ChoiceRecord
type ChoiceList = session.ChoiceList
type CompassDelta = session.CompassDelta
type EchoRecord = session.EchoRecord
type EchoList = session.EchoList
type CharacterAssignment = session.CharacterAssignment
type CharacterAssignmentList = session.CharacterAssignmentList
type PlayerAssignment = session.PlayerAssignment
type PlayerScenarioScore = session.PlayerScenarioScore
type CompassTracking = session.CompassTracking

type CompassAxis = catalog.CompassAxis
type Archetype = catalog.Archetype
type EchoType = catalog.EchoType
type FantasyTheme = catalog.FantasyTheme
type AgeGroup = catalog.AgeGroup
type SeedStatus = catalog.SeedStatus

type SyncLogEntry = outbox.SyncLogEntry

const (
	SessionNotStarted = session.StatusNotStarted
	SessionInProgress = session.StatusInProgress
	SessionCompleted  = session.StatusCompleted
	SessionAbandoned  = session.StatusAbandoned

	SyncOpInsert = outbox.OpInsert
	SyncOpUpdate = outbox.OpUpdate
	SyncOpDelete = outbox.OpDelete

	SyncStatusPending = outbox.StatusPending
	SyncStatusSynced  = outbox.StatusSynced
	SyncStatusFailed  = outbox.StatusFailed

	SyncSourceRelational = outbox.SourceRelational
	SyncSourceDocument   = outbox.SourceDocument

	CatalogCompassAxis  = catalog.TagCompassAxis
	CatalogArchetype    = catalog.TagArchetype
	CatalogEchoType     = catalog.TagEchoType
	CatalogFantasyTheme = catalog.TagFantasyTheme
	CatalogAgeGroup     = catalog.TagAgeGroup
)
