// Package exchange defines the surface a trade stream client exposes to the
// rest of the application.
package exchange

// Feed is the per-symbol streaming subscription interface. Implementations
// subscribe asynchronously and keep streams alive for the process lifetime;
// there is no unsubscribe.
type Feed interface {
	// Subscribe starts streaming trades for a canonical symbol ("BTC/USDT").
	// It returns immediately and is idempotent for already active symbols.
	Subscribe(symbol string)

	// ActiveSymbols returns the wire symbols with a running stream.
	ActiveSymbols() []string
}
