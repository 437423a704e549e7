// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package nostr

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrProtocolViolation is returned for frames that parse as JSON but do
// not match any known relay envelope shape. It is never fatal to the
// connection; callers log and skip.
var ErrProtocolViolation = errors.New("nostr: protocol violation")

// FrameKind identifies which of the four relay envelope shapes a frame is.
type FrameKind int

const (
	FrameUnknown FrameKind = iota
	FrameEvent
	FrameEOSE
	FrameNotice
	FrameOK
)

// Frame is a decoded relay wire envelope. Only the fields relevant to
// Kind are populated.
type Frame struct {
	Kind   FrameKind
	SubID  string
	Event  *Event
	Notice string
	OKID   string
	OKOk   bool
	OKMsg  string
}

// DecodeFrame parses a raw relay wire frame: a JSON array whose first
// element names the command. Malformed frames and event objects that
// fail schema validation return an error and must never be treated as
// fatal to the connection by the caller.
func DecodeFrame(raw []byte) (Frame, error) {
	var head []json.RawMessage
	if err := json.Unmarshal(raw, &head); err != nil {
		return Frame{}, fmt.Errorf("%w: not a JSON array: %v", ErrProtocolViolation, err)
	}
	if len(head) == 0 {
		return Frame{}, fmt.Errorf("%w: empty envelope", ErrProtocolViolation)
	}

	var cmd string
	if err := json.Unmarshal(head[0], &cmd); err != nil {
		return Frame{}, fmt.Errorf("%w: command is not a string: %v", ErrProtocolViolation, err)
	}

	switch cmd {
	case "EVENT":
		if len(head) != 3 {
			return Frame{}, fmt.Errorf("%w: EVENT wants 3 elements, got %d", ErrProtocolViolation, len(head))
		}
		var subID string
		if err := json.Unmarshal(head[1], &subID); err != nil {
			return Frame{}, fmt.Errorf("%w: EVENT subscription id: %v", ErrProtocolViolation, err)
		}
		ev, err := DecodeEvent(head[2])
		if err != nil {
			return Frame{}, err
		}
		return Frame{Kind: FrameEvent, SubID: subID, Event: ev}, nil

	case "EOSE":
		if len(head) != 2 {
			return Frame{}, fmt.Errorf("%w: EOSE wants 2 elements, got %d", ErrProtocolViolation, len(head))
		}
		var subID string
		if err := json.Unmarshal(head[1], &subID); err != nil {
			return Frame{}, fmt.Errorf("%w: EOSE subscription id: %v", ErrProtocolViolation, err)
		}
		return Frame{Kind: FrameEOSE, SubID: subID}, nil

	case "NOTICE":
		if len(head) != 2 {
			return Frame{}, fmt.Errorf("%w: NOTICE wants 2 elements, got %d", ErrProtocolViolation, len(head))
		}
		var text string
		if err := json.Unmarshal(head[1], &text); err != nil {
			return Frame{}, fmt.Errorf("%w: NOTICE text: %v", ErrProtocolViolation, err)
		}
		return Frame{Kind: FrameNotice, Notice: text}, nil

	case "OK":
		if len(head) != 4 {
			return Frame{}, fmt.Errorf("%w: OK wants 4 elements, got %d", ErrProtocolViolation, len(head))
		}
		var id string
		var ok bool
		var msg string
		if err := json.Unmarshal(head[1], &id); err != nil {
			return Frame{}, fmt.Errorf("%w: OK event id: %v", ErrProtocolViolation, err)
		}
		if err := json.Unmarshal(head[2], &ok); err != nil {
			return Frame{}, fmt.Errorf("%w: OK flag: %v", ErrProtocolViolation, err)
		}
		if err := json.Unmarshal(head[3], &msg); err != nil {
			return Frame{}, fmt.Errorf("%w: OK message: %v", ErrProtocolViolation, err)
		}
		return Frame{Kind: FrameOK, OKID: id, OKOk: ok, OKMsg: msg}, nil

	default:
		return Frame{}, fmt.Errorf("%w: unknown command %q", ErrProtocolViolation, cmd)
	}
}

// ReqFrame builds the ["REQ", <sub_id>, <filter>] wire message.
func ReqFrame(subID string, filter Filter) ([]byte, error) {
	arr := []interface{}{"REQ", subID, filter}
	return json.Marshal(arr)
}

// CloseFrame builds the ["CLOSE", <sub_id>] wire message.
func CloseFrame(subID string) ([]byte, error) {
	arr := []interface{}{"CLOSE", subID}
	return json.Marshal(arr)
}

// Filter is a Nostr subscription predicate. Zero-value fields are
// omitted from the encoded object, so a live-mode filter carries only
// "since", and only when a resume point is set, and backfill filters
// carry only kinds/until/limit.
type Filter struct {
	Kinds []int64 `json:"kinds,omitempty"`
	Since *int64  `json:"since,omitempty"`
	Until *int64  `json:"until,omitempty"`
	Limit int     `json:"limit,omitempty"`
}
