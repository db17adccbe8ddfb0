package session

import (
	"time"

	"github.com/phoenixvc/mystira-backend/internal/data/convert"
)

// CompassTracking is a document-store-only rollup of per-axis activity.
// Its container is partitioned by Axis rather than by ID, which is the one
// bespoke case the partition-key synchronizer has to handle.
type CompassTracking struct {
	ID         string             `json:"id"`
	Axis       string             `json:"axis"`
	Totals     convert.AxisTotals `json:"totals"`
	SampleSize int                `json:"sampleSize"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
