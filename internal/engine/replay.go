package engine

import (
	"os"

	"github.com/nilotpal-labs/ignitekv/internal/codec"
	"github.com/nilotpal-labs/ignitekv/internal/index"
	"github.com/nilotpal-labs/ignitekv/pkg/errors"
	"github.com/nilotpal-labs/ignitekv/pkg/seginfo"
)

// replay walks every segment of generation in order, decoding one
// command at a time and applying it to idx exactly as the live writer
// would have: a Set (re)publishes the key's Position, a Remove deletes
// it. It returns the total byte length of entries that were superseded
// or tombstoned along the way, seeding the uncompacted counter so a
// store reopened with a large dead fraction compacts promptly.
func replay(dataDir string, generation uint64, idx *index.Index) (uint64, error) {
	segments, err := seginfo.ListSegments(dataDir, generation)
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to list segments for replay").
			WithPath(seginfo.GenerationPath(dataDir, generation))
	}

	var uncompacted uint64
	for _, segmentIndex := range segments {
		path := seginfo.SegmentPath(dataDir, generation, segmentIndex)

		data, err := os.ReadFile(path)
		if err != nil {
			return 0, errors.ClassifyFileOpenError(err, path, seginfo.SegmentFileName(segmentIndex))
		}

		var offset int64
		for offset < int64(len(data)) {
			cmd, consumed, err := codec.DecodeCommandPrefix(data[offset:])
			if err != nil {
				return 0, errors.NewIndexCorruptionError("replay", idx.Len(), err).
					WithGeneration(generation).WithSegmentIndex(segmentIndex)
			}
			if int(offset)+consumed >= len(data) || data[int(offset)+consumed] != '\n' {
				return 0, errors.NewIndexCorruptionError("replay", idx.Len(), nil).
					WithGeneration(generation).WithSegmentIndex(segmentIndex)
			}
			recordLength := int64(consumed) + 1

			switch cmd.Op {
			case codec.OpSet:
				if prior, ok := idx.Get(cmd.Key); ok {
					uncompacted += uint64(prior.ByteLength)
				}
				idx.Set(cmd.Key, &index.RecordPointer{
					Generation:   generation,
					SegmentIndex: segmentIndex,
					ByteOffset:   offset,
					ByteLength:   recordLength,
				})
			case codec.OpRemove:
				if prior, ok := idx.Get(cmd.Key); ok {
					uncompacted += uint64(prior.ByteLength)
					idx.Delete(cmd.Key)
				}
				uncompacted += uint64(recordLength)
			}

			offset += recordLength
		}
	}

	return uncompacted, nil
}
