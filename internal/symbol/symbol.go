// Package symbol converts between the canonical pair spelling used by the
// API ("BTC/USDT") and the exchange wire spelling ("btcusdt").
package symbol

import "strings"

// ToWire converts a canonical symbol to the exchange wire format.
// Any input is accepted; no validation is performed.
func ToWire(canonical string) string {
	return strings.ToLower(strings.ReplaceAll(canonical, "/", ""))
}

// ToCanonical converts an exchange wire symbol back to canonical form by
// splitting off the last 4 characters as the quote asset.
//
// Known limitation: the fixed-width split is only correct for 4-character
// quote assets (USDT, USDC, ...). Pairs quoted in 3-letter assets such as
// "btceur" deformat incorrectly. The exchange protocol carries no separator,
// so there is no general fix without an asset table.
func ToCanonical(wire string) string {
	if len(wire) < 4 {
		return strings.ToUpper(wire)
	}
	split := len(wire) - 4
	return strings.ToUpper(wire[:split]) + "/" + strings.ToUpper(wire[split:])
}
