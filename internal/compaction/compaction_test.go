package compaction

import (
	"context"
	"testing"

	"github.com/nilotpal-labs/ignitekv/internal/index"
	"github.com/nilotpal-labs/ignitekv/internal/storage"
	"github.com/nilotpal-labs/ignitekv/pkg/seginfo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupGeneration0(t *testing.T) (string, *index.Index, *storage.Storage) {
	t.Helper()
	dir := t.TempDir()
	log := zap.NewNop().Sugar()

	s, err := storage.New(context.Background(), &storage.Config{
		DataDir: dir, Generation: 0, Threshold: 1024, Logger: log,
	})
	require.NoError(t, err)

	idx, err := index.New(&index.Config{Logger: log})
	require.NoError(t, err)

	return dir, idx, s
}

func TestRunRewritesLiveEntriesIntoNewGeneration(t *testing.T) {
	dir, idx, s := setupGeneration0(t)

	seg, off, err := s.Append([]byte("Set#\r\nkey:+3+abc\r\nvalue:+5+world\r\n\r\n"))
	require.NoError(t, err)
	idx.Set("abc", &index.RecordPointer{Generation: 0, SegmentIndex: seg, ByteOffset: off, ByteLength: 36})
	require.NoError(t, s.Close())

	result, err := Run(context.Background(), &Config{
		DataDir: dir, SegmentThreshold: 1024, Logger: zap.NewNop().Sugar(),
	}, idx, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Generation)

	pointer, ok := idx.Get("abc")
	require.True(t, ok)
	require.Equal(t, uint64(1), pointer.Generation)

	data, err := storage.ReadAt(dir, pointer.Generation, pointer.SegmentIndex, pointer.ByteOffset, pointer.ByteLength)
	require.NoError(t, err)
	require.Equal(t, "Set#\r\nkey:+3+abc\r\nvalue:+5+world\r\n\r\n", string(data))

	require.NoError(t, result.Storage.Close())
}

func TestRunDeletesGenerationTwoEpochsBack(t *testing.T) {
	dir, idx, s := setupGeneration0(t)
	require.NoError(t, s.Close())

	r1, err := Run(context.Background(), &Config{DataDir: dir, SegmentThreshold: 1024, Logger: zap.NewNop().Sugar()}, idx, 0)
	require.NoError(t, err)
	require.NoError(t, r1.Storage.Close())

	r2, err := Run(context.Background(), &Config{DataDir: dir, SegmentThreshold: 1024, Logger: zap.NewNop().Sugar()}, idx, 1)
	require.NoError(t, err)
	defer r2.Storage.Close()

	generations, err := seginfo.ListGenerations(dir)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{1, 2}, generations)
}
