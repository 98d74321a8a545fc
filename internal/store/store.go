// Package store holds the per-symbol rolling buffers of recent trades.
package store

import (
	"sync"
	"time"

	"tradefeed/internal/types"
)

// buffer is a newest-first sequence of trades for one symbol. The per-buffer
// mutex serializes stream appends, sweeper evictions and query snapshots
// without locking other symbols out.
type buffer struct {
	mu     sync.Mutex
	trades []types.Trade
}

// TradeStore owns all trade buffers, keyed by wire symbol. Buffers are
// created by Track on first subscription and live for the process lifetime.
type TradeStore struct {
	mu      sync.RWMutex
	buffers map[string]*buffer
}

// New creates an empty TradeStore.
func New() *TradeStore {
	return &TradeStore{buffers: make(map[string]*buffer)}
}

// Track creates the buffer for a symbol. Calling it again for a tracked
// symbol is a no-op.
func (s *TradeStore) Track(symbolKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buffers[symbolKey]; !ok {
		s.buffers[symbolKey] = &buffer{}
	}
}

func (s *TradeStore) buffer(symbolKey string) (*buffer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buffers[symbolKey]
	return b, ok
}

// Append inserts a trade at the head of the symbol's buffer. The exchange
// delivers trades in chronological order, so head insertion keeps the buffer
// descending by traded_at.
func (s *TradeStore) Append(symbolKey string, trade types.Trade) error {
	b, ok := s.buffer(symbolKey)
	if !ok {
		return types.NewSymbolNotFoundError(symbolKey)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trades = append([]types.Trade{trade}, b.trades...)
	return nil
}

// EvictOlderThan removes trades older than cutoff from the tail (oldest end)
// of the symbol's buffer and returns how many were removed. Unknown symbols
// are ignored; the sweeper only runs for tracked ones.
func (s *TradeStore) EvictOlderThan(symbolKey string, cutoff time.Time) int {
	b, ok := s.buffer(symbolKey)
	if !ok {
		return 0
	}
	cutoffMillis := cutoff.UnixMilli()

	b.mu.Lock()
	defer b.mu.Unlock()
	evicted := 0
	for len(b.trades) > 0 {
		oldest := b.trades[len(b.trades)-1]
		ts, err := oldest.TradedAtMillis()
		// An unparsable timestamp can never age out; drop it so the tail
		// does not wedge.
		if err == nil && ts >= cutoffMillis {
			break
		}
		b.trades = b.trades[:len(b.trades)-1]
		evicted++
	}
	return evicted
}

// Snapshot returns a copy of the symbol's buffer, newest-first. Returns a
// SymbolNotFoundError for symbols that were never subscribed.
func (s *TradeStore) Snapshot(symbolKey string) ([]types.Trade, error) {
	b, ok := s.buffer(symbolKey)
	if !ok {
		return nil, types.NewSymbolNotFoundError(symbolKey)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]types.Trade(nil), b.trades...), nil
}
