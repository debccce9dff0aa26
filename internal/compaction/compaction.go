// Package compaction implements the multi-generation compaction epoch
// that reclaims space consumed by superseded or tombstoned commands: a
// fresh generation directory is built from the current index snapshot,
// published atomically, and the generation two epochs back is removed.
package compaction

import (
	"context"

	"github.com/benbjohnson/immutable"
	"github.com/nilotpal-labs/ignitekv/internal/index"
	"github.com/nilotpal-labs/ignitekv/internal/storage"
	"github.com/nilotpal-labs/ignitekv/pkg/errors"
	"github.com/nilotpal-labs/ignitekv/pkg/filesys"
	"github.com/nilotpal-labs/ignitekv/pkg/seginfo"
	"go.uber.org/zap"
)

// Config carries the parameters a compaction run needs beyond the index
// and the generation it is compacting away from.
type Config struct {
	DataDir          string
	SegmentThreshold uint64
	Logger           *zap.SugaredLogger
}

// Result is the outcome of a successful compaction: a Storage already
// positioned as the live append target for the new generation.
type Result struct {
	Storage    *storage.Storage
	Generation uint64
}

type rewrittenEntry struct {
	key     string
	pointer *index.RecordPointer
}

// Run executes one compaction epoch against currentGeneration. It
// creates gen_(g+1)/ from scratch, rewrites every entry in a snapshot of
// the live index into it, publishes the rewritten index, and then
// removes gen_(g-1)/ if it still exists. The caller must hold the
// engine's writer lock for the full duration of this call.
func Run(ctx context.Context, cfg *Config, idx *index.Index, currentGeneration uint64) (*Result, error) {
	nextGeneration := currentGeneration + 1

	nextPath := seginfo.GenerationPath(cfg.DataDir, nextGeneration)
	if err := filesys.DeleteDir(nextPath); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO,
			"failed to clear generation left by a prior crashed compaction").WithPath(nextPath)
	}

	dest, err := storage.New(ctx, &storage.Config{
		DataDir:    cfg.DataDir,
		Generation: nextGeneration,
		Threshold:  cfg.SegmentThreshold,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	snapshot := idx.Snapshot()
	rewrites := make([]rewrittenEntry, 0, snapshot.Len())

	itr := snapshot.Iterator()
	for !itr.Done() {
		key, pointer, _ := itr.Next()

		data, err := storage.ReadAt(cfg.DataDir, pointer.Generation, pointer.SegmentIndex, pointer.ByteOffset, pointer.ByteLength)
		if err != nil {
			dest.Close()
			return nil, errors.NewIndexCorruptionError("compact", snapshot.Len(), err).WithKey(key)
		}

		segmentIndex, offset, err := dest.Append(data)
		if err != nil {
			dest.Close()
			return nil, err
		}

		rewrites = append(rewrites, rewrittenEntry{
			key: key,
			pointer: &index.RecordPointer{
				Generation:   nextGeneration,
				SegmentIndex: segmentIndex,
				ByteOffset:   offset,
				ByteLength:   pointer.ByteLength,
			},
		})
	}

	idx.Publish(func(current *immutable.Map[string, *index.RecordPointer]) *immutable.Map[string, *index.RecordPointer] {
		next := current
		for _, rw := range rewrites {
			next = next.Set(rw.key, rw.pointer)
		}
		return next
	})

	if currentGeneration > 0 {
		previousPath := seginfo.GenerationPath(cfg.DataDir, currentGeneration-1)
		if err := filesys.DeleteDir(previousPath); err != nil {
			cfg.Logger.Warnw("failed to delete superseded generation", "path", previousPath, "error", err)
		}
	}

	cfg.Logger.Infow("compaction complete", "generation", nextGeneration, "rewrittenKeys", len(rewrites))
	return &Result{Storage: dest, Generation: nextGeneration}, nil
}
