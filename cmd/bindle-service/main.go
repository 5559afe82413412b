package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bindlehq/bindle/internal/api"
	"github.com/bindlehq/bindle/internal/config"
	"github.com/bindlehq/bindle/internal/factory"
	"github.com/bindlehq/bindle/internal/indexer"
	"github.com/bindlehq/bindle/internal/logger"
	"github.com/bindlehq/bindle/internal/searchindex"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	log := logger.New("bindle-service", cfg.LogLevel)
	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("bindle service starting")

	store, err := factory.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("storage adapter unavailable")
	}
	defer func() { _ = store.Close() }()

	// The search index is in-process and derived; rebuild it from the
	// store before serving queries, then keep it fresh via the worker.
	ix := indexer.New(store, searchindex.NewMemoryIndex(), log, cfg.IndexQueueSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ix.Run(ctx)

	if err := ix.ReindexAll(ctx, ""); err != nil {
		log.Error().Err(err).Msg("startup reindex failed, continuing with empty index")
	}

	router := api.NewRouter(store, ix, log)
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
