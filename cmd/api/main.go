// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

// Command funnel-api runs the read-only query process: an HTTP surface
// backed by the analytics store the ingestion process writes to. It
// shares no in-process state with the ingestor, only the same
// underlying store file, which it opens read_only so it can run
// concurrently with the ingestor's read_write connection.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nostr-funnel/funnel/internal/api"
	"github.com/nostr-funnel/funnel/internal/config"
	"github.com/nostr-funnel/funnel/internal/logging"
	"github.com/nostr-funnel/funnel/internal/store"
)

const (
	defaultAddr    = ":8080"
	shutdownGrace  = 5 * time.Second
	requestTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "funnel-api: "+err.Error())
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "json"})

	if cfg.APIToken == "" {
		logging.Warn().Msg("API_TOKEN not set, authentication disabled")
	}

	st, err := store.New(cfg.Store.Store(true))
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store")
		}
	}()

	handlers := api.NewHandlers(st, st)
	router := api.NewRouter(handlers, cfg.APIToken)

	server := &http.Server{
		Addr:         defaultAddr,
		Handler:      router,
		ReadTimeout:  requestTimeout,
		WriteTimeout: requestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", defaultAddr).Msg("query API listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server error")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}

	logging.Info().Msg("query API stopped gracefully")
}
