package storage

import (
	"os"

	"go.uber.org/zap"
)

// Storage owns the single append target for one generation: the active
// segment file, its size, and the segment index currently being written
// to. It has no locking of its own — the engine writer's mutex is the
// only thing ever allowed to call its mutating methods, matching the
// single-writer discipline described for the engine as a whole.
type Storage struct {
	dataDir      string             // Base directory the store lives under.
	generation   uint64             // Generation this Storage instance writes into.
	segmentIndex uint64             // Index of the currently active segment.
	size         int64              // Bytes written to the active segment so far.
	activeFile   *os.File           // Open handle on the active segment, append-positioned.
	threshold    uint64             // Size in bytes that triggers a roll to the next segment.
	log          *zap.SugaredLogger // Structured logger for operational visibility.
}

// Config encapsulates the parameters required to open a Storage for one
// generation.
type Config struct {
	DataDir    string
	Generation uint64
	Threshold  uint64
	Logger     *zap.SugaredLogger
}
