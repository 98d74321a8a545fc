// Package binance owns the per-symbol trade stream connections and the
// retention sweepers that trim aged trades out of the store.
package binance

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"tradefeed/internal/exchange"
	"tradefeed/internal/store"
	"tradefeed/internal/symbol"
)

var _ exchange.Feed = (*Client)(nil)

// Options holds the tunables for the stream client.
type Options struct {
	WSURL          string        // base websocket URL, e.g. wss://stream.binance.com:9443/ws
	ReconnectDelay time.Duration // wait between connection attempts
	SweepInterval  time.Duration // how often the retention sweeper runs
	Retention      time.Duration // maximum trade age kept in the store
}

// Client manages one long-lived websocket connection per subscribed symbol.
// Streams reconnect forever; a symbol is never unsubscribed once active.
type Client struct {
	opts   Options
	store  *store.TradeStore
	dialer *websocket.Dialer

	mu     sync.Mutex
	active map[string]struct{}
	wg     sync.WaitGroup // tracks stream and sweeper goroutines
}

// NewClient creates a stream client writing into st.
func NewClient(opts Options, st *store.TradeStore) *Client {
	return &Client{
		opts:   opts,
		store:  st,
		dialer: websocket.DefaultDialer,
		active: make(map[string]struct{}),
	}
}

// Subscribe starts streaming trades for a canonical symbol. It returns
// immediately; connecting happens in the background. Subscribing an already
// active symbol is a no-op, also under concurrent calls.
func (c *Client) Subscribe(canonical string) {
	wire := symbol.ToWire(canonical)

	c.mu.Lock()
	if _, ok := c.active[wire]; ok {
		c.mu.Unlock()
		return
	}
	c.active[wire] = struct{}{}
	c.mu.Unlock()

	c.store.Track(wire)
	log.Info().Str("symbol", canonical).Str("wire", wire).Msg("Subscribing to trade stream")

	c.wg.Add(2)
	go c.supervise("stream", wire, func() { c.connectLoop(wire) })
	go c.supervise("sweeper", wire, func() { c.sweepLoop(wire) })
}

// ActiveSymbols returns the wire symbols with a running stream.
func (c *Client) ActiveSymbols() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.active))
	for wire := range c.active {
		out = append(out, wire)
	}
	return out
}

// supervise keeps a per-symbol task alive: a panic is logged and the task
// restarted instead of silently killing the symbol's stream.
func (c *Client) supervise(task, wire string, fn func()) {
	defer c.wg.Done()
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Str("task", task).Str("symbol", wire).
						Msg("Task crashed, restarting")
				}
			}()
			fn()
		}()
		time.Sleep(c.opts.ReconnectDelay)
	}
}

// connectLoop dials the symbol's trade stream and re-dials after the fixed
// delay on any failure. It never gives up.
func (c *Client) connectLoop(wire string) {
	url := fmt.Sprintf("%s/%s@trade", c.opts.WSURL, wire)
	for {
		if err := c.streamOnce(url, wire); err != nil {
			log.Error().Err(err).Str("symbol", wire).Msg("Trade stream disconnected")
		}
		time.Sleep(c.opts.ReconnectDelay)
	}
}

// streamOnce runs a single connection until it fails. A malformed message
// fails the receive cycle so the caller reconnects; it never crashes the
// process.
func (c *Client) streamOnce(url, wire string) error {
	conn, _, err := c.dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()
	log.Info().Str("symbol", wire).Msg("Connected to trade stream")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		trade, err := parseTrade(data)
		if err != nil {
			return err
		}
		if err := c.store.Append(wire, trade); err != nil {
			return err
		}
		log.Debug().Str("symbol", wire).Str("price", trade.Price).
			Str("quantity", trade.Quantity).Str("side", string(trade.Side)).Msg("Trade appended")
	}
}

// sweepLoop periodically evicts trades older than the retention window.
// It runs independently of the stream reader and never blocks it.
func (c *Client) sweepLoop(wire string) {
	ticker := time.NewTicker(c.opts.SweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-c.opts.Retention)
		if n := c.store.EvictOlderThan(wire, cutoff); n > 0 {
			log.Debug().Str("symbol", wire).Int("evicted", n).Msg("Swept aged trades")
		}
	}
}
