package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tradefeed/internal/config"
	"tradefeed/internal/exchange/binance"
	"tradefeed/internal/httpapi"
	"tradefeed/internal/query"
	"tradefeed/internal/store"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	log.Info().Str("addr", cfg.Server.Addr).Str("ws_url", cfg.Exchange.WSURL).Msg("Config loaded")

	st := store.New()
	feed := binance.NewClient(binance.Options{
		WSURL:          cfg.Exchange.WSURL,
		ReconnectDelay: cfg.Exchange.ReconnectDelay(),
		SweepInterval:  cfg.Retention.SweepInterval(),
		Retention:      cfg.Retention.Window(),
	}, st)
	queries := query.NewEngine(st, cfg.Retention.Window())

	// state lives in process memory only; re-subscribe defaults on startup
	for _, symbol := range cfg.Exchange.DefaultSymbols {
		feed.Subscribe(symbol)
		log.Info().Str("symbol", symbol).Msg("Default symbol subscribed")
	}

	api := httpapi.NewServer(feed, queries)
	server := &http.Server{Addr: cfg.Server.Addr, Handler: api.R}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	log.Info().Msg("Shutdown complete")
}
