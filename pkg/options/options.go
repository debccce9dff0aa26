// Package options provides data structures and functions for configuring
// an ignitekv store. It defines the parameters that control segment
// rolling, compaction scheduling, where a store's files live on disk,
// and the address/engine pair the server binary exposes to operators.
package options

import "strings"

// Options defines the configuration parameters for an ignitekv store.
// It provides control over storage layout, compaction behavior, and the
// network-facing settings consumed by the server binary.
type Options struct {
	// DataDir is the base path under which `engine` and `gen_<g>/` live.
	//
	// Default: "/var/lib/ignitekv"
	DataDir string `json:"dataDir"`

	// SegmentThreshold is the maximum size in bytes a segment may reach
	// before the writer rolls to a new one within the current generation.
	//
	//  - Default: 256 MiB
	//  - Minimum: 1 MiB
	//  - Maximum: 4 GiB
	SegmentThreshold uint64 `json:"segmentThreshold"`

	// CompactionThreshold is the number of uncompacted bytes that, once
	// reached after a publish, schedules a compaction pass.
	//
	//  - Default: 1 MiB
	//  - Minimum: 64 KiB
	//  - Maximum: 512 MiB
	CompactionThreshold uint64 `json:"compactionThreshold"`

	// ListenAddr is the address the server binds. A port of 0 requests
	// an OS-assigned ephemeral port; the concrete bound address is
	// retrievable from the listener after bind.
	//
	// Default: "127.0.0.1:4000"
	ListenAddr string `json:"listenAddr"`

	// Engine names the storage backend. Only "kvs" (this package) is
	// implemented; "sled" is accepted as a recognized marker value so a
	// mismatched restart against a sled-backed directory fails fast
	// instead of corrupting it.
	//
	// Default: "kvs"
	Engine string `json:"engine"`
}

// OptionFunc is a function type that modifies a store's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the baseline configuration values.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		*o = opts
	}
}

// WithDataDir sets the base directory for engine marker and generation data.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithSegmentThreshold sets the per-segment rolling threshold in bytes.
func WithSegmentThreshold(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinSegmentThreshold && size <= MaxSegmentThreshold {
			o.SegmentThreshold = size
		}
	}
}

// WithCompactionThreshold sets the uncompacted-bytes threshold that
// schedules a compaction pass.
func WithCompactionThreshold(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinCompactionThreshold && size <= MaxCompactionThreshold {
			o.CompactionThreshold = size
		}
	}
}

// WithListenAddr sets the address the server binds.
func WithListenAddr(addr string) OptionFunc {
	return func(o *Options) {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			o.ListenAddr = addr
		}
	}
}

// WithEngine sets the requested storage backend name.
func WithEngine(engine string) OptionFunc {
	return func(o *Options) {
		engine = strings.TrimSpace(engine)
		if engine != "" {
			o.Engine = engine
		}
	}
}
