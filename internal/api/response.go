// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

// Package api implements the read-only HTTP query surface: routing,
// auth, and response encoding for spec.md 4.4's routes.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/nostr-funnel/funnel/internal/logging"
)

// errorBody is the wire shape for every error response, per spec.md
// 4.4: `{"error":"..."}`.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON writes data as the response body with the given cache
// policy. maxAge of zero sets Cache-Control: no-store.
func writeJSON(w http.ResponseWriter, statusCode int, maxAge time.Duration, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if maxAge <= 0 {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
	}
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError writes an error body. Error responses are always
// Cache-Control: no-store, per spec.md 4.4.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, 0, errorBody{Error: message})
}
