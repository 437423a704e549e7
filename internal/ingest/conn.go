// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nostr-funnel/funnel/internal/nostr"
)

// keepaliveInterval bounds how long a read may block without a frame
// before live mode treats the connection as dead, per spec.md 4.3.
const keepaliveInterval = 60 * time.Second

// ErrConnLost distinguishes a broken transport (reconnect required)
// from a frame that failed to parse (log, count, keep reading).
var ErrConnLost = errors.New("ingest: connection lost")

// RelayConn is the WebSocket transport the ingestion loop reads
// decoded frames from. wsConn is the production implementation; tests
// substitute a fake.
type RelayConn interface {
	Subscribe(subID string, filter nostr.Filter) error
	ReadFrame(ctx context.Context) (nostr.Frame, error)
	Close(subID string) error
	Shutdown() error
}

// Dialer opens a fresh relay connection.
type Dialer func(ctx context.Context, relayURL string) (RelayConn, error)

// DialRelay is the production Dialer, backed by a real WebSocket dial.
func DialRelay(ctx context.Context, relayURL string) (RelayConn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, relayURL, nil)
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: dial %s: %w", relayURL, err)
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Subscribe(subID string, filter nostr.Filter) error {
	frame, err := nostr.ReqFrame(subID, filter)
	if err != nil {
		return fmt.Errorf("ingest: build REQ: %w", err)
	}
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *wsConn) Close(subID string) error {
	frame, err := nostr.CloseFrame(subID)
	if err != nil {
		return fmt.Errorf("ingest: build CLOSE: %w", err)
	}
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *wsConn) ReadFrame(ctx context.Context) (nostr.Frame, error) {
	deadline := time.Now().Add(keepaliveInterval)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nostr.Frame{}, fmt.Errorf("%w: set read deadline: %v", ErrConnLost, err)
	}
	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		return nostr.Frame{}, fmt.Errorf("%w: %v", ErrConnLost, err)
	}
	return nostr.DecodeFrame(raw)
}

func (c *wsConn) Shutdown() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.conn.Close()
}

// newSubID mints a fresh Nostr subscription id.
func newSubID() string {
	return uuid.NewString()
}
