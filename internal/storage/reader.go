package storage

import (
	"os"

	"github.com/nilotpal-labs/ignitekv/pkg/errors"
	"github.com/nilotpal-labs/ignitekv/pkg/seginfo"
)

// ReadAt opens the segment named by generation and segmentIndex under
// dataDir read-only, and returns the length bytes starting at offset.
// It is safe to call concurrently with an active writer appending to a
// later offset in the same or a different segment, since readers never
// touch bytes beyond a RecordPointer a publish has already made visible.
func ReadAt(dataDir string, generation, segmentIndex uint64, offset, length int64) ([]byte, error) {
	path := seginfo.SegmentPath(dataDir, generation, segmentIndex)

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, seginfo.SegmentFileName(segmentIndex))
	}
	defer file.Close()

	buf := make([]byte, length)
	if _, err := file.ReadAt(buf, offset); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read record").
			WithSegmentID(int(segmentIndex)).WithOffset(int(offset)).WithPath(path)
	}

	return buf, nil
}
