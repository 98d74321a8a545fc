package binance

import (
	"encoding/json"
	"strconv"

	"tradefeed/internal/symbol"
	"tradefeed/internal/types"
)

// tradeEvent is the payload of the Binance <symbol>@trade stream.
// Prices and quantities arrive as decimal strings.
type tradeEvent struct {
	EventType    string `json:"e"` // "trade"
	EventTime    int64  `json:"E"`
	Symbol       string `json:"s"`
	TradeID      int64  `json:"t"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	TradeTime    int64  `json:"T"` // trade execution time, epoch milliseconds
	IsBuyerMaker bool   `json:"m"`
}

// parseTrade converts a raw stream message into a Trade. The maker flag maps
// to the aggressor side: when the buyer is the maker, the taker sold.
func parseTrade(data []byte) (types.Trade, error) {
	var ev tradeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return types.Trade{}, types.NewStreamError("malformed trade event", err)
	}
	if ev.Symbol == "" || ev.Price == "" || ev.Quantity == "" || ev.TradeTime == 0 {
		return types.Trade{}, types.NewStreamError("trade event missing fields", nil)
	}

	side := types.SideBuy
	if ev.IsBuyerMaker {
		side = types.SideSell
	}
	return types.Trade{
		TradedAt: strconv.FormatInt(ev.TradeTime, 10),
		Symbol:   symbol.ToCanonical(ev.Symbol),
		Quantity: ev.Quantity,
		Price:    ev.Price,
		Side:     side,
	}, nil
}
