package store

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefeed/internal/types"
)

func trade(at int64) types.Trade {
	return types.Trade{
		TradedAt: strconv.FormatInt(at, 10),
		Symbol:   "BTC/USDT",
		Quantity: "1",
		Price:    "100",
		Side:     types.SideBuy,
	}
}

func TestSnapshotUntracked(t *testing.T) {
	s := New()
	_, err := s.Snapshot("btcusdt")
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))
}

func TestAppendUntracked(t *testing.T) {
	s := New()
	err := s.Append("btcusdt", trade(1))
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))
}

func TestTrackIdempotent(t *testing.T) {
	s := New()
	s.Track("btcusdt")
	require.NoError(t, s.Append("btcusdt", trade(1)))
	s.Track("btcusdt")

	snap, err := s.Snapshot("btcusdt")
	require.NoError(t, err)
	assert.Len(t, snap, 1)
}

func TestSnapshotNewestFirst(t *testing.T) {
	s := New()
	s.Track("btcusdt")
	for _, at := range []int64{10, 20, 30} {
		require.NoError(t, s.Append("btcusdt", trade(at)))
	}

	snap, err := s.Snapshot("btcusdt")
	require.NoError(t, err)
	require.Len(t, snap, 3)
	assert.Equal(t, "30", snap[0].TradedAt)
	assert.Equal(t, "20", snap[1].TradedAt)
	assert.Equal(t, "10", snap[2].TradedAt)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.Track("btcusdt")
	require.NoError(t, s.Append("btcusdt", trade(10)))

	snap, err := s.Snapshot("btcusdt")
	require.NoError(t, err)
	snap[0].Price = "tampered"

	again, err := s.Snapshot("btcusdt")
	require.NoError(t, err)
	assert.Equal(t, "100", again[0].Price)
}

func TestEvictOlderThan(t *testing.T) {
	s := New()
	s.Track("btcusdt")
	for _, at := range []int64{10, 20, 30, 40} {
		require.NoError(t, s.Append("btcusdt", trade(at)))
	}

	evicted := s.EvictOlderThan("btcusdt", time.UnixMilli(30))
	assert.Equal(t, 2, evicted)

	snap, err := s.Snapshot("btcusdt")
	require.NoError(t, err)
	require.Len(t, snap, 2)
	// cutoff is exclusive of equal timestamps: traded_at >= cutoff survives
	assert.Equal(t, "40", snap[0].TradedAt)
	assert.Equal(t, "30", snap[1].TradedAt)
}

func TestEvictUnknownSymbol(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.EvictOlderThan("ethusdt", time.UnixMilli(100)))
}

func TestEvictUnparsableTail(t *testing.T) {
	s := New()
	s.Track("btcusdt")
	require.NoError(t, s.Append("btcusdt", types.Trade{TradedAt: "garbage", Side: types.SideBuy}))
	require.NoError(t, s.Append("btcusdt", trade(50)))

	evicted := s.EvictOlderThan("btcusdt", time.UnixMilli(40))
	assert.Equal(t, 1, evicted)

	snap, err := s.Snapshot("btcusdt")
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "50", snap[0].TradedAt)
}

func TestConcurrentAppendEvictSnapshot(t *testing.T) {
	s := New()
	s.Track("btcusdt")

	const n = 500
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_ = s.Append("btcusdt", trade(int64(i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			s.EvictOlderThan("btcusdt", time.UnixMilli(int64(i/2)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			snap, err := s.Snapshot("btcusdt")
			if err != nil {
				t.Errorf("snapshot: %v", err)
				return
			}
			for j := 1; j < len(snap); j++ {
				prev, _ := snap[j-1].TradedAtMillis()
				cur, _ := snap[j].TradedAtMillis()
				if prev < cur {
					t.Errorf("snapshot not newest-first: %d before %d", prev, cur)
					return
				}
			}
		}
	}()
	wg.Wait()

	// everything at or above the final cutoff must have survived
	snap, err := s.Snapshot("btcusdt")
	require.NoError(t, err)
	seen := make(map[int64]bool, len(snap))
	for _, tr := range snap {
		ts, err := tr.TradedAtMillis()
		require.NoError(t, err)
		seen[ts] = true
	}
	for i := int64((n - 1) / 2); i < n; i++ {
		assert.True(t, seen[i], "trade %d missing after concurrent eviction", i)
	}
}
