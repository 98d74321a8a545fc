// Package httpapi is the thin HTTP adapter over the trade feed core.
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tradefeed/internal/exchange"
	"tradefeed/internal/query"
	"tradefeed/internal/types"
)

// Server wires the router over the feed client and query engine.
type Server struct {
	R       *gin.Engine
	feed    exchange.Feed
	queries *query.Engine
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type tradesResponse struct {
	Data []types.Trade `json:"data"`
}

type subscribeRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// NewServer builds the router with logging and panic recovery middleware.
func NewServer(feed exchange.Feed, queries *query.Engine) *Server {
	g := gin.New()

	g.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http_request")
	})
	g.Use(gin.Recovery())

	s := &Server{R: g, feed: feed, queries: queries}

	g.GET("/health", s.health)
	g.GET("/get_raw_trades", s.getRawTrades)
	g.GET("/get_trades_stat", s.getTradesStat)
	g.POST("/subscribe_trade_symbol", s.subscribeTradeSymbol)

	return s
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: msg})
}

func (s *Server) queryError(c *gin.Context, where string, err error) {
	if types.IsNotFound(err) {
		c.JSON(http.StatusNotFound, apiError{Code: "not_found", Message: err.Error()})
		return
	}
	log.Error().Err(err).Str("where", where).Msg("internal_error")
	c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: "internal server error"})
}

// parseWindow reads the since/to query parameters as epoch milliseconds.
func parseWindow(c *gin.Context) (since, to int64, ok bool) {
	since, err := strconv.ParseInt(c.Query("since"), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	to, err = strconv.ParseInt(c.Query("to"), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return since, to, true
}

func (s *Server) getRawTrades(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		s.badRequest(c, "symbol is required")
		return
	}
	since, to, ok := parseWindow(c)
	if !ok {
		s.badRequest(c, "since and to must be unix millisecond timestamps")
		return
	}

	trades, err := s.queries.RawTrades(symbol, since, to)
	if err != nil {
		s.queryError(c, "RawTrades", err)
		return
	}
	c.JSON(http.StatusOK, tradesResponse{Data: trades})
}

func (s *Server) getTradesStat(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		s.badRequest(c, "symbol is required")
		return
	}
	since, to, ok := parseWindow(c)
	if !ok {
		s.badRequest(c, "since and to must be unix millisecond timestamps")
		return
	}
	side, ok := types.ParseSide(c.Query("side"))
	if !ok {
		s.badRequest(c, "side must be 'buy' or 'sell'")
		return
	}

	stat, err := s.queries.TradeStats(symbol, since, to, side)
	if err != nil {
		s.queryError(c, "TradeStats", err)
		return
	}
	c.JSON(http.StatusOK, stat)
}

func (s *Server) subscribeTradeSymbol(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "symbol is required")
		return
	}

	// fire-and-forget: the stream connects in the background
	s.feed.Subscribe(req.Symbol)
	c.JSON(http.StatusOK, gin.H{"message": "Subscribed to " + req.Symbol})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"symbols": s.feed.ActiveSymbols(),
	})
}
