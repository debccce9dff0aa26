package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T, threshold uint64) (*Storage, string) {
	t.Helper()
	dir := t.TempDir()

	s, err := New(context.Background(), &Config{
		DataDir:    dir,
		Generation: 0,
		Threshold:  threshold,
		Logger:     zap.NewNop().Sugar(),
	})
	require.NoError(t, err)
	return s, dir
}

func TestNewCreatesFreshSegmentZero(t *testing.T) {
	s, dir := newTestStorage(t, 1024)
	defer s.Close()

	require.Equal(t, uint64(0), s.SegmentIndex())
	require.Equal(t, int64(0), s.Size())
	require.DirExists(t, filepath.Join(dir, "gen_0"))
}

func TestAppendTracksOffsetAndSize(t *testing.T) {
	s, _ := newTestStorage(t, 1024)
	defer s.Close()

	seg1, off1, err := s.Append([]byte("hello\n"))
	require.NoError(t, err)
	require.Equal(t, uint64(0), seg1)
	require.Equal(t, int64(0), off1)

	seg2, off2, err := s.Append([]byte("world\n"))
	require.NoError(t, err)
	require.Equal(t, uint64(0), seg2)
	require.Equal(t, int64(6), off2)

	require.Equal(t, int64(12), s.Size())
}

func TestAppendRollsSegmentWhenThresholdExceeded(t *testing.T) {
	s, _ := newTestStorage(t, 10)
	defer s.Close()

	_, _, err := s.Append([]byte("0123456789"))
	require.NoError(t, err)
	require.Equal(t, uint64(0), s.SegmentIndex())

	seg, off, err := s.Append([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), seg)
	require.Equal(t, int64(0), off)
	require.Equal(t, int64(3), s.Size())
}

func TestReadAtReturnsWrittenBytes(t *testing.T) {
	s, dir := newTestStorage(t, 1024)
	defer s.Close()

	seg, off, err := s.Append([]byte("payload"))
	require.NoError(t, err)

	got, err := ReadAt(dir, s.Generation(), seg, off, int64(len("payload")))
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))
}

func TestNewResumesExistingSegment(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{DataDir: dir, Generation: 0, Threshold: 1024, Logger: zap.NewNop().Sugar()}

	s1, err := New(context.Background(), cfg)
	require.NoError(t, err)
	_, _, err = s1.Append([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer s2.Close()

	require.Equal(t, uint64(0), s2.SegmentIndex())
	require.Equal(t, int64(3), s2.Size())
}

func TestCloseIsNotIdempotent(t *testing.T) {
	s, _ := newTestStorage(t, 1024)
	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Close(), ErrStorageClosed)
}
