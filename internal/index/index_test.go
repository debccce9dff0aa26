package index

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(&Config{Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return idx
}

func TestSetThenGet(t *testing.T) {
	idx := newTestIndex(t)
	idx.Set("k1", &RecordPointer{Generation: 0, SegmentIndex: 0, ByteOffset: 10, ByteLength: 5})

	got, ok := idx.Get("k1")
	require.True(t, ok)
	assert.Equal(t, int64(10), got.ByteOffset)
}

func TestDeleteRemovesKey(t *testing.T) {
	idx := newTestIndex(t)
	idx.Set("k1", &RecordPointer{Generation: 0, SegmentIndex: 0, ByteOffset: 0, ByteLength: 1})
	idx.Delete("k1")

	_, ok := idx.Get("k1")
	assert.False(t, ok)
}

func TestGetMissingKey(t *testing.T) {
	idx := newTestIndex(t)
	_, ok := idx.Get("missing")
	assert.False(t, ok)
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	idx := newTestIndex(t)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			idx.Set("k", &RecordPointer{ByteOffset: int64(i)})
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			// A concurrent reader must never observe a panic or torn
			// state, even though it may see stale values.
			idx.Get("k")
		}
	}()

	wg.Wait()
	got, ok := idx.Get("k")
	require.True(t, ok)
	assert.Equal(t, int64(999), got.ByteOffset)
}

func TestLenReflectsSnapshot(t *testing.T) {
	idx := newTestIndex(t)
	assert.Equal(t, 0, idx.Len())

	idx.Set("a", &RecordPointer{})
	idx.Set("b", &RecordPointer{})
	assert.Equal(t, 2, idx.Len())

	idx.Delete("a")
	assert.Equal(t, 1, idx.Len())
}

func TestCloseIsIdempotentFailure(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Close())
	require.ErrorIs(t, idx.Close(), ErrIndexClosed)
}
