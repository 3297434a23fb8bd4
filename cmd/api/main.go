package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SujayAgarwal28/TradePulse-sub000/internal/auth"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/config"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/db"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/health"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/httpserver"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/ledger"
	"github.com/SujayAgarwal28/TradePulse-sub000/internal/marketdata"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store ledger.Store
	var healthHandler *health.Handler
	if cfg.DBDSN != "" {
		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("database")
		}
		defer pool.Close()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("schema")
		}
		store = ledger.NewPostgresStore(pool)
		healthHandler = health.NewHandler(pool)
		log.Info().Msg("using postgres ledger store")
	} else {
		store = ledger.NewMemoryStore()
		healthHandler = health.NewHandler(nil)
		log.Info().Msg("using in-memory ledger store")
	}

	bus := marketdata.NewBus()
	feed := marketdata.NewYahooFeed(marketdata.YahooConfig{BaseURL: cfg.PriceFeedURL})
	cache := marketdata.NewCache(feed, store, bus)
	cache.Track(cfg.TrackedSymbols...)
	cache.Refresh(ctx)
	cache.StartRefresher(ctx, cfg.RefreshInterval)

	ledgerSvc := ledger.NewService(store, cache, ledger.ServiceConfig{
		FeeRate:     cfg.FeeRate,
		LockTimeout: cfg.LockTimeout,
		StaleAfter:  cfg.StaleAfter,
	})
	authSvc := auth.NewService(cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.JWTTTL)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		LedgerHandler: ledger.NewHandler(ledgerSvc, cfg.StartingBalance),
		HealthHandler: healthHandler,
		AuthService:   authSvc,
		QuoteWS:       marketdata.NewQuoteWS(bus, cfg.WebSocketOrigin),
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server")
	}
}
