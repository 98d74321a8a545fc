package types

import "strconv"

// Side represents the aggressor side of a trade (buy or sell).
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide validates a side value coming from an API caller.
func ParseSide(s string) (Side, bool) {
	switch Side(s) {
	case SideBuy, SideSell:
		return Side(s), true
	default:
		return "", false
	}
}

// Trade is a single executed trade as received from the exchange stream.
// Timestamps, quantities and prices are kept as the exchange's decimal
// strings so no precision is lost between ingestion and the API response.
type Trade struct {
	TradedAt string `json:"traded_at"` // unix epoch milliseconds
	Symbol   string `json:"symbol"`    // canonical form, e.g. "BTC/USDT"
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Side     Side   `json:"side"`
}

// TradedAtMillis parses the trade timestamp into epoch milliseconds.
func (t Trade) TradedAtMillis() (int64, error) {
	return strconv.ParseInt(t.TradedAt, 10, 64)
}

// TradeStat is a volume-weighted summary over a time window and side.
// It is computed on demand and never stored.
type TradeStat struct {
	TimeFrom       string `json:"time_from"`
	TimeTo         string `json:"time_to"`
	Symbol         string `json:"symbol"`
	Quantity       string `json:"quantity"`
	WeightAvgPrice string `json:"weight_avg_price"`
	Side           Side   `json:"side"`
}
