// Package storage manages the on-disk segment files that back one
// generation of an ignitekv store: discovering them at open, appending
// new records with automatic rolling once a segment grows past its
// threshold, and serving random-access reads by Position for both live
// gets and compaction.
package storage

import (
	"context"
	stdErrors "errors"
	"io"
	"os"

	"github.com/nilotpal-labs/ignitekv/pkg/errors"
	"github.com/nilotpal-labs/ignitekv/pkg/filesys"
	"github.com/nilotpal-labs/ignitekv/pkg/seginfo"
)

var ErrStorageClosed = stdErrors.New("operation failed: cannot access closed storage")

// New opens (creating if necessary) the generation directory named by
// config.Generation, discovers its segments, and positions the writer at
// the correct append target: a fresh 0.log if the generation is empty,
// the highest-numbered existing segment if it still has room, or a new
// segment one past it if the highest one is already at its threshold.
func New(ctx context.Context, config *Config) (*Storage, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil || config.Threshold == 0 {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "storage configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	genPath := seginfo.GenerationPath(config.DataDir, config.Generation)
	if err := filesys.CreateDir(genPath, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, genPath)
	}

	s := &Storage{
		dataDir:    config.DataDir,
		generation: config.Generation,
		threshold:  config.Threshold,
		log:        config.Logger,
	}

	segments, err := seginfo.ListSegments(config.DataDir, config.Generation)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to list segments").
			WithPath(genPath)
	}

	targetSegment := uint64(0)
	if len(segments) > 0 {
		latest := segments[len(segments)-1]
		info, err := os.Stat(seginfo.SegmentPath(config.DataDir, config.Generation, latest))
		if err != nil {
			return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat latest segment").
				WithSegmentID(int(latest)).WithPath(genPath)
		}

		if uint64(info.Size()) >= config.Threshold {
			targetSegment = latest + 1
		} else {
			targetSegment = latest
			s.size = info.Size()
		}
	}

	file, err := s.openSegmentFile(targetSegment)
	if err != nil {
		return nil, err
	}

	s.activeFile = file
	s.segmentIndex = targetSegment

	s.log.Infow(
		"storage opened",
		"generation", config.Generation,
		"activeSegment", targetSegment,
		"size", s.size,
	)
	return s, nil
}

func (s *Storage) openSegmentFile(segmentIndex uint64) (*os.File, error) {
	path := seginfo.SegmentPath(s.dataDir, s.generation, segmentIndex)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, seginfo.SegmentFileName(segmentIndex))
	}

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek to end of segment").
			WithPath(path)
	}

	return file, nil
}

// Append writes data to the active segment, rolling to a new segment
// first if writing data would exceed the configured threshold. It
// returns the segment and byte offset the record now occupies on disk.
func (s *Storage) Append(data []byte) (segmentIndex uint64, offset int64, err error) {
	if uint64(s.size)+uint64(len(data)) > s.threshold && s.size > 0 {
		if err := s.roll(); err != nil {
			return 0, 0, err
		}
	}

	offset = s.size
	segmentIndex = s.segmentIndex

	n, err := s.activeFile.Write(data)
	if err != nil {
		return 0, 0, errors.ClassifySyncError(err, seginfo.SegmentFileName(segmentIndex), s.dataDir, int(offset))
	}
	s.size += int64(n)

	if err := s.activeFile.Sync(); err != nil {
		return 0, 0, errors.ClassifySyncError(err, seginfo.SegmentFileName(segmentIndex), s.dataDir, int(offset))
	}

	return segmentIndex, offset, nil
}

func (s *Storage) roll() error {
	if err := s.activeFile.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close segment during roll").
			WithSegmentID(int(s.segmentIndex))
	}

	next := s.segmentIndex + 1
	file, err := s.openSegmentFile(next)
	if err != nil {
		return err
	}

	s.activeFile = file
	s.segmentIndex = next
	s.size = 0

	s.log.Infow("segment rolled", "generation", s.generation, "newSegment", next)
	return nil
}

// Generation returns the generation this Storage writes into.
func (s *Storage) Generation() uint64 { return s.generation }

// SegmentIndex returns the currently active segment's index.
func (s *Storage) SegmentIndex() uint64 { return s.segmentIndex }

// Size returns the number of bytes written to the active segment.
func (s *Storage) Size() int64 { return s.size }

// Close closes the active segment file. Append syncs every write, so
// there is nothing left to flush.
func (s *Storage) Close() error {
	if s.activeFile == nil {
		return ErrStorageClosed
	}
	err := s.activeFile.Close()
	s.activeFile = nil
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close active segment")
	}
	return nil
}
