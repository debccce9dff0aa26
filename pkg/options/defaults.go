package options

const (
	// DefaultDataDir is the base directory ignitekv stores its generation
	// directories and engine marker file under when none is supplied.
	DefaultDataDir = "/var/lib/ignitekv"

	// SegmentThreshold is the design-default size a segment may reach
	// before the writer rolls to a new one within the same generation.
	SegmentThreshold uint64 = 256 * 1024 * 1024

	// CompactionThreshold is the design-default number of uncompacted
	// bytes that schedules a compaction pass after a publish.
	CompactionThreshold uint64 = 1 * 1024 * 1024

	// MinSegmentThreshold and MaxSegmentThreshold bound what callers may
	// configure via WithSegmentThreshold.
	MinSegmentThreshold uint64 = 1 * 1024 * 1024
	MaxSegmentThreshold uint64 = 4 * 1024 * 1024 * 1024

	// MinCompactionThreshold and MaxCompactionThreshold bound what callers
	// may configure via WithCompactionThreshold.
	MinCompactionThreshold uint64 = 64 * 1024
	MaxCompactionThreshold uint64 = 512 * 1024 * 1024

	// DefaultListenAddr is the address ignitekv-server binds when none is given.
	DefaultListenAddr = "127.0.0.1:4000"

	// EngineKVS and EngineSled name the two recognized backend markers.
	// Sled is an external collaborator (out of scope here); it is only
	// ever used as the content of the on-disk engine marker file to
	// detect a mismatched restart.
	EngineKVS  = "kvs"
	EngineSled = "sled"

	// DefaultEngine is the backend chosen on a fresh data directory.
	DefaultEngine = EngineKVS
)

// defaultOptions holds the baseline configuration for a fresh store.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	SegmentThreshold:    SegmentThreshold,
	CompactionThreshold: CompactionThreshold,
	ListenAddr:          DefaultListenAddr,
	Engine:              DefaultEngine,
}

// NewDefaultOptions returns a copy of the baseline configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
