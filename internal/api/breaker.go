// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package api

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/nostr-funnel/funnel/internal/logging"
)

// newStoreBreaker builds a circuit breaker around the store's read
// path. Opening it under sustained store failure protects the query
// process from piling up slow/hanging DuckDB calls behind a queue of
// timed-out HTTP requests; it never guards the ingestion write path.
func newStoreBreaker() *gobreaker.CircuitBreaker[interface{}] {
	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        "store-reads",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
		},
	})
}

// execStore runs fn through the breaker, returning gobreaker.ErrOpenState
// (or ErrTooManyRequests during half-open probing) directly when the
// breaker is not letting calls through, so handlers can distinguish it
// from a genuine store error.
func execStore[T any](cb *gobreaker.CircuitBreaker[interface{}], fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}
