package todo

import "context"

// Snapshot The interface implemented by the persistence media, a snapshot holds the
// whole serialized collection and is the de-facto persistence layer of the [Store]
type Snapshot interface {
	// Load Reads the full snapshot. It must return an error matching
	// [snapshot.ErrNotExist] if nothing was ever saved
	Load(ctx context.Context) ([]byte, error)

	// Save Replaces the full snapshot. The replacement must be atomic, a concurrent
	// Load observes either the previous or the new content
	Save(ctx context.Context, data []byte) error
}
