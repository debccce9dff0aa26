package engine

import (
	"github.com/nilotpal-labs/ignitekv/internal/codec"
	"github.com/nilotpal-labs/ignitekv/internal/storage"
	"github.com/nilotpal-labs/ignitekv/pkg/errors"
)

// Get looks up key in the index and, on a hit, reads and decodes its
// Position from disk. It takes no lock: the index's Get is lock-free and
// storage.ReadAt opens an independent read handle, so Get never
// contends with the writer or with other readers.
func (e *Engine) Get(key string) (string, bool, error) {
	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	pointer, ok := e.index.Get(key)
	if !ok {
		return "", false, nil
	}

	data, err := storage.ReadAt(e.dataDir, pointer.Generation, pointer.SegmentIndex, pointer.ByteOffset, pointer.ByteLength)
	if err != nil {
		return "", false, err
	}

	if len(data) == 0 || data[len(data)-1] != '\n' {
		return "", false, errors.NewIndexCorruptionError("get", e.index.Len(), nil).WithKey(key)
	}

	cmd, err := codec.DecodeCommand(data[:len(data)-1])
	if err != nil {
		return "", false, err
	}
	if cmd.Op != codec.OpSet {
		return "", false, errors.NewIndexCorruptionError("get", e.index.Len(), nil).WithKey(key)
	}

	return cmd.Value, true, nil
}
