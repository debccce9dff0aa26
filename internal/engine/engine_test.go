package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nilotpal-labs/ignitekv/pkg/errors"
	"github.com/nilotpal-labs/ignitekv/pkg/options"
)

func newTestEngine(t *testing.T, compactionThreshold uint64) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()

	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.SegmentThreshold = 1024 * 1024
	opts.CompactionThreshold = compactionThreshold

	e, err := Open(context.Background(), &Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return e, dir
}

func TestSetThenGetRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t, options.CompactionThreshold)
	defer e.Close()

	require.NoError(t, e.Set("k1", "v1"))

	value, ok, err := e.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", value)
}

func TestGetMissingKeyIsNotAnError(t *testing.T) {
	e, _ := newTestEngine(t, options.CompactionThreshold)
	defer e.Close()

	_, ok, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOverwriteReplacesValue(t *testing.T) {
	e, _ := newTestEngine(t, options.CompactionThreshold)
	defer e.Close()

	require.NoError(t, e.Set("k1", "v1"))
	require.NoError(t, e.Set("k1", "v2"))

	value, ok, err := e.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", value)
}

func TestRemoveDeletesKey(t *testing.T) {
	e, _ := newTestEngine(t, options.CompactionThreshold)
	defer e.Close()

	require.NoError(t, e.Set("k1", "v1"))
	require.NoError(t, e.Remove("k1"))

	_, ok, err := e.Get("k1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveMissingKeyIsAHardError(t *testing.T) {
	e, _ := newTestEngine(t, options.CompactionThreshold)
	defer e.Close()

	err := e.Remove("missing")
	require.Error(t, err)
	require.True(t, errors.IsIndexError(err))
}

func TestReopenReplaysCommittedState(t *testing.T) {
	e, dir := newTestEngine(t, options.CompactionThreshold)
	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))
	require.NoError(t, e.Remove("a"))
	require.NoError(t, e.Close())

	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.SegmentThreshold = 1024 * 1024
	opts.CompactionThreshold = options.CompactionThreshold

	reopened, err := Open(context.Background(), &Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	defer reopened.Close()

	_, ok, err := reopened.Get("a")
	require.NoError(t, err)
	require.False(t, ok)

	value, ok, err := reopened.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", value)
}

func TestCompactionTriggersAndPreservesLiveValues(t *testing.T) {
	e, _ := newTestEngine(t, 64) // tiny threshold forces compaction quickly
	defer e.Close()

	for i := 0; i < 50; i++ {
		require.NoError(t, e.Set("same-key", "value-that-supersedes-itself-repeatedly"))
	}

	value, ok, err := e.Get("same-key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value-that-supersedes-itself-repeatedly", value)
	require.Greater(t, e.generation, uint64(0))
}
