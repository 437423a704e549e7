// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

// Command funnel-ingest runs the ingestion process: a live subscription
// against a single Nostr relay, optionally paired with a one-shot
// historical backfill, both writing decoded events into the
// analytics store. The two run as independently supervised services so a
// crash in one does not take down the other.
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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nostr-funnel/funnel/internal/config"
	"github.com/nostr-funnel/funnel/internal/ingest"
	"github.com/nostr-funnel/funnel/internal/logging"
	"github.com/nostr-funnel/funnel/internal/store"
	"github.com/nostr-funnel/funnel/internal/supervisor"
)

const metricsAddr = ":9090"

func main() {
	cfg, err := config.LoadIngestConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "funnel-ingest: "+err.Error())
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "json"})
	logging.Info().Str("relay", cfg.RelayURL).Bool("backfill", cfg.Backfill).Msg("starting ingestion")

	st, err := store.New(cfg.Store.Store(false))
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewIngestionTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build supervisor tree")
	}

	liveLoop := ingest.NewLiveLoop(cfg.RelayURL, ingest.DialRelay, st, st,
		ingest.BatchConfig{MaxBatchSize: cfg.BatchSize, FlushInterval: cfg.BatchInterval()})
	tree.AddLiveLoop(liveLoop)
	logging.Info().Msg("live ingestion loop added to supervisor tree")

	if cfg.Backfill {
		backfill := ingest.NewBackfill(cfg.RelayURL, ingest.DialRelay, st, nil)
		tree.AddBackfill(backfill)
		logging.Info().Msg("backfill run added to supervisor tree")
	}

	metricsSrv := &http.Server{
		Addr:         metricsAddr,
		Handler:      promhttp.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("metrics server error")
		}
	}()
	logging.Info().Str("addr", metricsAddr).Msg("metrics server listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("metrics server did not shut down cleanly")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop")
		}
	}

	logging.Info().Msg("ingestion stopped gracefully")
}
