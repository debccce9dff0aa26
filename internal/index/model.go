package index

import (
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"go.uber.org/zap"
)

// RecordPointer is the index's value type: the minimum metadata needed to
// locate a Set command's serialized bytes on disk without scanning.
type RecordPointer struct {
	// Generation identifies which gen_<g>/ directory holds the segment.
	Generation uint64

	// SegmentIndex identifies the <n>.log file within that generation.
	SegmentIndex uint64

	// ByteOffset is where the record's bytes begin within the segment.
	ByteOffset int64

	// ByteLength is how many bytes the record occupies, including its
	// trailing newline, so a read can fetch it in one call.
	ByteLength int64
}

// Index is the concurrent key -> RecordPointer map described by the
// single-writer/multi-reader contract: many lookups proceed without
// blocking each other or the writer, and a publish makes a batch of
// writer-side edits atomically visible.
//
// The snapshot held at any instant is an immutable.Map: persistent,
// structurally-shared, and safe to read concurrently with no locking.
// The writer builds the next snapshot from the current one and swaps the
// pointer; readers that loaded the old pointer keep seeing a complete,
// un-torn view until they reload it.
type Index struct {
	snapshot atomic.Pointer[immutable.Map[string, *RecordPointer]]
	log      *zap.SugaredLogger
	closed   atomic.Bool
}

// Config encapsulates the configuration parameters required to
// initialize an Index.
type Config struct {
	Logger *zap.SugaredLogger
}
