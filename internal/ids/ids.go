// Package ids produces stable identifiers from semantic keys so that seed
// runs are naturally idempotent: the same input always maps to the same
// UUID, and an existence check short-circuits re-insertion.
package ids

import (
	"crypto/sha256"
	"strings"

	"github.com/google/uuid"
)

// Generate derives a 128-bit identifier from sha256(entityType + ":" +
// lower(name)), taking the first 16 bytes of the digest. The delimiter and
// lowercasing are part of the contract: any implementation hashing the
// same byte sequence yields the same ID.
func Generate(entityType, name string) uuid.UUID {
	sum := sha256.Sum256([]byte(entityType + ":" + strings.ToLower(name)))
	id, _ := uuid.FromBytes(sum[:16])
	return id
}
