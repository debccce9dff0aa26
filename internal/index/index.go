// Package index provides the in-memory, lock-free-for-readers mapping
// from key to RecordPointer that the engine consults on every get and
// mutates on every set/remove.
//
// Readers call Get, which loads the current published snapshot and
// performs a structurally-shared lookup with no locking. The writer
// side — used exclusively by the engine's single writer — stages edits
// against the current snapshot with Publish and swaps the result in with
// a single atomic store, which is the publish step the design calls for.
package index

import (
	stdErrors "errors"

	"github.com/benbjohnson/immutable"
	"github.com/nilotpal-labs/ignitekv/pkg/errors"
)

var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// New creates an empty Index ready for concurrent use.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	idx := &Index{log: config.Logger}
	idx.snapshot.Store(immutable.NewMap[string, *RecordPointer](nil))
	return idx, nil
}

// Get performs a lock-free lookup against the currently published
// snapshot. It never blocks on the writer and never observes a partial
// publish: it sees either the whole of one snapshot or the whole of the
// next, never a mix.
func (idx *Index) Get(key string) (*RecordPointer, bool) {
	return idx.snapshot.Load().Get(key)
}

// Len returns the number of live keys in the currently published snapshot.
func (idx *Index) Len() int {
	return idx.snapshot.Load().Len()
}

// Snapshot returns the currently published map, for callers (compaction)
// that need to iterate a consistent view of all live entries.
func (idx *Index) Snapshot() *immutable.Map[string, *RecordPointer] {
	return idx.snapshot.Load()
}

// Publish atomically swaps in a new snapshot built by mutate, which
// receives the currently published map and returns the next one. Only
// the engine's single writer calls Publish; concurrent calls would race
// on read-modify-write and are not supported.
func (idx *Index) Publish(mutate func(current *immutable.Map[string, *RecordPointer]) *immutable.Map[string, *RecordPointer]) {
	current := idx.snapshot.Load()
	idx.snapshot.Store(mutate(current))
}

// Set is a convenience wrapper around Publish for the common single-key
// update performed by set and by replay.
func (idx *Index) Set(key string, pointer *RecordPointer) {
	idx.Publish(func(current *immutable.Map[string, *RecordPointer]) *immutable.Map[string, *RecordPointer] {
		return current.Set(key, pointer)
	})
}

// Delete is a convenience wrapper around Publish for removing a key.
func (idx *Index) Delete(key string) {
	idx.Publish(func(current *immutable.Map[string, *RecordPointer]) *immutable.Map[string, *RecordPointer] {
		return current.Delete(key)
	})
}

// Close marks the index closed. Snapshot data is left to the garbage
// collector; there is no explicit memory to release beyond dropping the
// reference, since the underlying map is immutable and may still be
// referenced by in-flight readers that loaded it just before Close.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Infow("closing index", "liveKeys", idx.Len())
	return nil
}
