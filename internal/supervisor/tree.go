// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns production-ready defaults.
// These values match suture's built-in defaults per pkg.go.dev documentation.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// IngestionTree supervises the ingest process's concurrent services: the
// live-mode relay subscription loop and, when backfill is enabled, the
// historical-archive walk. Both are restarted independently by suture on
// crash, per spec.md 5's requirement that the two run as separate
// concurrent tasks under one process.
type IngestionTree struct {
	root   *suture.Supervisor
	logger *slog.Logger
	config TreeConfig
}

// NewIngestionTree creates a new supervisor tree with the given configuration.
func NewIngestionTree(logger *slog.Logger, config TreeConfig) (*IngestionTree, error) {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5.0
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = 30.0
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = 15 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	// The correct API is (&Handler{Logger: logger}).MustHook(), not
	// sutureslog.EventHook(logger), which does not exist. MustHook has
	// a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}
	eventHook := handler.MustHook()

	root := suture.New("funnel-ingest", suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	})

	return &IngestionTree{root: root, logger: logger, config: config}, nil
}

// Root returns the root supervisor for direct access if needed.
func (t *IngestionTree) Root() *suture.Supervisor {
	return t.root
}

// AddLiveLoop adds the live-mode subscription loop to the tree.
func (t *IngestionTree) AddLiveLoop(svc suture.Service) suture.ServiceToken {
	return t.root.Add(svc)
}

// AddBackfill adds the historical-archive walk to the tree. Callers only
// invoke this when spec.md 6's BACKFILL flag is set.
func (t *IngestionTree) AddBackfill(svc suture.Service) suture.ServiceToken {
	return t.root.Add(svc)
}

// Serve starts the supervisor tree and blocks until the context is canceled.
func (t *IngestionTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the supervisor tree in a background goroutine.
// Returns a channel that receives the error (or nil) when the supervisor stops.
func (t *IngestionTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport returns information about services that failed to
// stop within the configured shutdown timeout.
func (t *IngestionTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}

// Remove removes a service from the tree by its token.
func (t *IngestionTree) Remove(token suture.ServiceToken) error {
	return t.root.Remove(token)
}

// RemoveAndWait removes a service and waits for it to fully stop.
func (t *IngestionTree) RemoveAndWait(token suture.ServiceToken, timeout time.Duration) error {
	return t.root.RemoveAndWait(token, timeout)
}
