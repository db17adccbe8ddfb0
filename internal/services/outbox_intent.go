package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/phoenixvc/mystira-backend/internal/data/repos"
	types "github.com/phoenixvc/mystira-backend/internal/domain"
	"github.com/phoenixvc/mystira-backend/internal/pkg/dbctx"
)

// appendIntent snapshots payload as canonical JSON and appends a sync-log
// row. Must be called with the transaction that carries the primary write
// so both commit together.
func appendIntent(dbc dbctx.Context, syncLog repos.SyncLogRepo, entityType, entityID, op string, payload interface{}) error {
	var raw datatypes.JSON
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s intent payload: %w", entityType, err)
		}
		raw = datatypes.JSON(encoded)
	}
	return syncLog.Append(dbc, &types.SyncLogEntry{
		EntityType:  entityType,
		EntityID:    entityID,
		Operation:   op,
		SourceStore: types.SyncSourceRelational,
		Payload:     raw,
	})
}
