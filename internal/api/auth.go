// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// RequireAuth builds bearer-token auth middleware. token is the
// expected value from spec.md 6's API_TOKEN; an empty token disables
// auth entirely, per spec.md 4.4 ("bearer-token required ... when
// API_TOKEN is configured").
func RequireAuth(token string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if token == "" {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				writeError(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}
			got, ok := strings.CutPrefix(h, bearerPrefix)
			if !ok || !validateToken(got, token) {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next(w, r)
		}
	}
}

// validateToken compares in constant time. The length check leaks the
// expected token's length, which is acceptable since token length is
// not itself secret.
func validateToken(got, want string) bool {
	if len(got) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
