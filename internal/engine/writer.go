package engine

import (
	"context"

	"github.com/nilotpal-labs/ignitekv/internal/codec"
	"github.com/nilotpal-labs/ignitekv/internal/compaction"
	"github.com/nilotpal-labs/ignitekv/internal/index"
	"github.com/nilotpal-labs/ignitekv/pkg/errors"
)

// Set appends a Set command to the active segment and publishes its
// Position to the index, superseding any prior Position for key. It may
// trigger a compaction before returning if enough of the log has gone
// stale.
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	record := append(codec.EncodeCommand(codec.Command{Op: codec.OpSet, Key: key, Value: value}), '\n')

	segmentIndex, offset, err := e.storage.Append(record)
	if err != nil {
		return err
	}

	if prior, ok := e.index.Get(key); ok {
		e.uncompacted += uint64(prior.ByteLength)
	}
	e.index.Set(key, &index.RecordPointer{
		Generation:   e.generation,
		SegmentIndex: segmentIndex,
		ByteOffset:   offset,
		ByteLength:   int64(len(record)),
	})

	return e.maybeCompact()
}

// Remove appends a Remove command (a tombstone) and deletes key from the
// index. Removing an absent key is a hard error and writes nothing. It
// may trigger a compaction before returning.
func (e *Engine) Remove(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prior, existed := e.index.Get(key)
	if !existed {
		return errors.NewKeyNotFoundError(key).WithOperation("Remove")
	}

	record := append(codec.EncodeCommand(codec.Command{Op: codec.OpRemove, Key: key}), '\n')
	_, _, err := e.storage.Append(record)
	if err != nil {
		return err
	}

	e.uncompacted += uint64(prior.ByteLength) + uint64(len(record))
	e.index.Delete(key)

	return e.maybeCompact()
}

// maybeCompact runs a compaction epoch once the uncompacted counter has
// crossed the configured threshold. Callers must already hold e.mu.
func (e *Engine) maybeCompact() error {
	if e.uncompacted < e.compactionThreshold {
		return nil
	}

	result, err := compaction.Run(context.Background(), &compaction.Config{
		DataDir:          e.dataDir,
		SegmentThreshold: e.segmentThreshold,
		Logger:           e.log,
	}, e.index, e.generation)
	if err != nil {
		return err
	}

	if err := e.storage.Close(); err != nil {
		e.log.Warnw("failed to close superseded generation storage", "error", err)
	}

	e.storage = result.Storage
	e.generation = result.Generation
	e.uncompacted = 0
	return nil
}
