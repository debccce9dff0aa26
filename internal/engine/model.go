package engine

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nilotpal-labs/ignitekv/internal/index"
	"github.com/nilotpal-labs/ignitekv/internal/storage"
	"github.com/nilotpal-labs/ignitekv/pkg/options"
)

// Engine coordinates the index, the active generation's storage, and
// compaction behind a single writer lock. Its read path (Get) never
// takes that lock: index lookups are lock-free and segment reads open
// their own file handle, so many readers proceed concurrently with the
// one writer and with each other.
type Engine struct {
	mu sync.Mutex // guards storage, generation, and uncompacted for the writer path

	index   *index.Index
	storage *storage.Storage

	dataDir             string
	generation          uint64
	uncompacted         uint64
	segmentThreshold    uint64
	compactionThreshold uint64

	log    *zap.SugaredLogger
	closed atomic.Bool
}

// Config carries what Open needs to bring an Engine up: where the store
// lives and how it should log.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}
