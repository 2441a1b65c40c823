package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_proxy/internal/adapters/http_server"
	"hotel_proxy/internal/adapters/observability"
	redisad "hotel_proxy/internal/adapters/redis"
	"hotel_proxy/internal/adapters/supplier"
	"hotel_proxy/internal/app"
	"hotel_proxy/internal/domain"
	"hotel_proxy/internal/shared"
	mysqlrepo "hotel_proxy/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if err := cfg.RequireSupplier(); err != nil {
		log.Fatal().Err(err).Msg("supplier configuration missing")
	}

	shutdownTracing, err := observability.InitTracing(ctx, "hotel-proxy", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing init failed")
	}
	defer shutdownTracing()

	observability.Serve(cfg.MetricsAddr)

	sup, err := supplier.New(cfg.SupplierBase, cfg.SupplierKey, supplier.Options{
		Timeout: cfg.SupplierTimeout,
		RPS:     cfg.SupplierRPS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize supplier client")
	}

	// optional deps stay nil interfaces when not configured
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; autosuggest cache disabled")
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
			log.Info().Str("addr", cfg.RedisAddr).Msg("autosuggest cache enabled")
		}
	}

	var journal domain.FailureJournal
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		defer db.Close()
		journal = mysqlrepo.New(db)
		log.Info().Msg("upstream failure journal enabled")
	}

	p := app.NewProxyService(sup, cache, journal, cfg.SuggestTTL)

	// http
	srv := server.New(cfg.HandlerTimeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{P: p})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("supplier", cfg.SupplierBase).Msg("proxy listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("proxy stopped")
}
