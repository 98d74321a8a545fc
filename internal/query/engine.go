// Package query answers raw-range and volume-weighted statistics queries
// against the trade store.
package query

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"tradefeed/internal/store"
	"tradefeed/internal/symbol"
	"tradefeed/internal/types"
)

// Engine reads snapshots from the store; it never mutates it.
type Engine struct {
	store     *store.TradeStore
	retention time.Duration
	now       func() time.Time
}

// NewEngine creates a query engine with the given retention window.
func NewEngine(st *store.TradeStore, retention time.Duration) *Engine {
	return &Engine{store: st, retention: retention, now: time.Now}
}

// RawTrades returns the trades for a canonical symbol whose traded_at falls
// within [since, to] (epoch milliseconds, inclusive). The window is clamped
// to the retention guarantee: a span wider than the retention window pulls
// since forward to to-retention, and since never reaches further back than
// now-retention even if the buffer still holds older trades.
func (e *Engine) RawTrades(canonical string, since, to int64) ([]types.Trade, error) {
	snap, err := e.store.Snapshot(symbol.ToWire(canonical))
	if err != nil {
		return nil, err
	}

	retentionMillis := e.retention.Milliseconds()
	if to-since > retentionMillis {
		since = to - retentionMillis
	}
	if oldest := e.now().Add(-e.retention).UnixMilli(); since < oldest {
		since = oldest
	}

	out := make([]types.Trade, 0, len(snap))
	for _, t := range snap {
		ts, err := t.TradedAtMillis()
		if err != nil {
			continue
		}
		if ts >= since && ts <= to {
			out = append(out, t)
		}
	}
	return out, nil
}

// TradeStats computes the summed quantity and volume-weighted average price
// of trades matching the side within [since, to] inclusive. Unlike RawTrades
// the window is deliberately not clamped to the retention guarantee; callers
// asking about evicted time ranges simply match nothing. A window with no
// matching trades yields a zero-valued stat, not an error.
func (e *Engine) TradeStats(canonical string, since, to int64, side types.Side) (types.TradeStat, error) {
	snap, err := e.store.Snapshot(symbol.ToWire(canonical))
	if err != nil {
		return types.TradeStat{}, err
	}

	stat := types.TradeStat{
		TimeFrom:       strconv.FormatInt(since, 10),
		TimeTo:         strconv.FormatInt(to, 10),
		Symbol:         canonical,
		Quantity:       "0",
		WeightAvgPrice: "0",
		Side:           side,
	}

	sumQty := decimal.Zero
	sumPriceQty := decimal.Zero
	for _, t := range snap {
		if t.Side != side {
			continue
		}
		ts, err := t.TradedAtMillis()
		if err != nil || ts < since || ts > to {
			continue
		}
		qty, err := decimal.NewFromString(t.Quantity)
		if err != nil {
			continue
		}
		price, err := decimal.NewFromString(t.Price)
		if err != nil {
			continue
		}
		sumQty = sumQty.Add(qty)
		sumPriceQty = sumPriceQty.Add(price.Mul(qty))
	}

	if sumQty.IsZero() {
		return stat, nil
	}
	stat.Quantity = sumQty.String()
	stat.WeightAvgPrice = sumPriceQty.Div(sumQty).String()
	return stat, nil
}
