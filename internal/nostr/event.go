// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

// Package nostr decodes relay wire frames into Events and projects
// video-specific metadata out of their tag arrays.
package nostr

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// Kind values Funnel cares about. Any other kind is stored but not
// specially interpreted.
const (
	KindProfile    int64 = 0
	KindNote       int64 = 1
	KindRepost     int64 = 6
	KindReaction   int64 = 7
	KindRepostAlt  int64 = 16
	KindLongVideo  int64 = 34235
	KindShortVideo int64 = 34236
)

var (
	// ErrMalformedEvent is returned when an event object fails schema validation.
	ErrMalformedEvent = errors.New("nostr: malformed event")
)

// Event is the canonical Nostr record, immutable once constructed.
type Event struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int64      `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// Validate checks the invariants spec.md places on an Event: fixed-length
// lowercase hex identity fields, a non-negative timestamp, and a
// well-formed tag array.
func (e *Event) Validate() error {
	if !isLowerHex(e.ID, 64) {
		return fmt.Errorf("%w: id must be 64 lowercase hex chars", ErrMalformedEvent)
	}
	if !isLowerHex(e.PubKey, 64) {
		return fmt.Errorf("%w: pubkey must be 64 lowercase hex chars", ErrMalformedEvent)
	}
	if !isLowerHex(e.Sig, 128) {
		return fmt.Errorf("%w: sig must be 128 lowercase hex chars", ErrMalformedEvent)
	}
	if e.CreatedAt < 0 {
		return fmt.Errorf("%w: created_at must be non-negative", ErrMalformedEvent)
	}
	if e.Tags == nil {
		return fmt.Errorf("%w: tags must not be null", ErrMalformedEvent)
	}
	for _, tag := range e.Tags {
		if len(tag) < 1 {
			return fmt.Errorf("%w: tag entries must have at least one element", ErrMalformedEvent)
		}
	}
	return nil
}

// IsVideo reports whether the event is a long-form or short-form video.
func (e *Event) IsVideo() bool {
	return e.Kind == KindLongVideo || e.Kind == KindShortVideo
}

// IsAddressable reports whether the event's kind falls in the
// replaceable/addressable range (30000-39999).
func (e *Event) IsAddressable() bool {
	return e.Kind >= 30000 && e.Kind <= 39999
}

// TagValue returns the position-1 value of the first tag named name, or
// "" if absent.
func (e *Event) TagValue(name string) string {
	for _, tag := range e.Tags {
		if len(tag) >= 2 && tag[0] == name {
			return tag[1]
		}
	}
	return ""
}

// TagValues returns the position-1 value of every tag named name, in
// arrival order, e.g. all "e" references on a reaction event.
func (e *Event) TagValues(name string) []string {
	var out []string
	for _, tag := range e.Tags {
		if len(tag) >= 2 && tag[0] == name {
			out = append(out, tag[1])
		}
	}
	return out
}

// DecodeEvent unmarshals a JSON event object and validates it.
func DecodeEvent(raw []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

func isLowerHex(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
