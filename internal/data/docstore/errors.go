package docstore

import "errors"

var (
	// ErrUnknownEntity is returned when no route is registered for an
	// entity type. Surfaced before any write is attempted.
	ErrUnknownEntity = errors.New("docstore: no route registered for entity type")

	// ErrNotFound is returned when a point read misses.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrMissingID is returned when a document carries no usable id member.
	ErrMissingID = errors.New("docstore: document is missing its id member")

	// ErrMissingPartitionValue is returned when, after partition-key
	// synchronization, the physical partition attribute is still empty. An
	// unsynced partition key would orphan the write to the wrong physical
	// partition, so this aborts the save.
	ErrMissingPartitionValue = errors.New("docstore: document is missing its partition value")
)
