// ============================================================================
// alarmview - Einsatz-Monitor
// ============================================================================
//
// Package:     feed
// Description: WebSocket client receiving operations from the alarm server
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
	"github.com/msto63/alarmview/foundation/core/log"
	"github.com/msto63/alarmview/internal/operation"
)

// Message types
const (
	TypeOperation = "operation"
	TypePing      = "ping"
	TypePong      = "pong"
	TypeError     = "error"
)

// Message is the envelope of every feed message
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Handler receives decoded operations. It runs on the client's goroutine.
type Handler func(op *operation.Operation)

// StatusFunc is called on connect (err == nil) and on disconnect.
type StatusFunc func(connected bool, err error)

// Config holds configuration for the feed client
type Config struct {
	URL               string
	Header            http.Header
	ReconnectInterval time.Duration
	HandshakeTimeout  time.Duration
	OnStatus          StatusFunc
	Logger            *log.Logger
}

// Client reads operations from a websocket feed
type Client struct {
	cfg    Config
	dialer websocket.Dialer
	logger *log.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient creates a new feed client
func NewClient(cfg Config) *Client {
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = 5 * time.Second
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.GetDefault()
	}

	return &Client{
		cfg: cfg,
		dialer: websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		logger: cfg.Logger.WithFields(log.Fields{"component": "feed", "url": cfg.URL}),
	}
}

// Run connects to the feed and calls handler for every operation until ctx
// is cancelled. Lost connections are re-established after ReconnectInterval.
func (c *Client) Run(ctx context.Context, handler Handler) error {
	if handler == nil {
		return mdwerror.New("feed: handler must not be nil").WithCode(mdwerror.CodePrecondition)
	}

	for {
		err := c.session(ctx, handler)
		if ctx.Err() != nil {
			return nil
		}

		c.logger.Warn("feed connection lost", log.Fields{
			"error": errString(err),
			"retry": c.cfg.ReconnectInterval.String(),
		})
		c.status(false, err)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.ReconnectInterval):
		}
	}
}

// session handles one connection until it fails or ctx is cancelled
func (c *Client) session(ctx context.Context, handler Handler) error {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, c.cfg.Header)
	if err != nil {
		return mdwerror.Wrap(err, "failed to connect").WithCode(mdwerror.CodeConnectionFailed)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	done := make(chan struct{})
	defer func() {
		close(done)
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	// unblock ReadJSON on cancellation
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	c.logger.Info("feed connected")
	c.status(true, nil)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return mdwerror.Wrap(err, "failed to read message").WithCode(mdwerror.CodeConnectionFailed)
		}

		switch msg.Type {
		case TypeOperation:
			var op operation.Operation
			if err := json.Unmarshal(msg.Payload, &op); err != nil {
				c.logger.Warn("invalid operation payload", log.Fields{"error": err.Error()})
				continue
			}
			c.logger.Debug("operation received", log.Fields{"number": op.Number})
			handler(&op)

		case TypePing:
			if err := c.send(Message{Type: TypePong}); err != nil {
				return err
			}

		case TypeError:
			var payload struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(msg.Payload, &payload)
			c.logger.Warn("feed server error", log.Fields{"error": payload.Error})

		default:
			c.logger.Debug("ignoring feed message", log.Fields{"type": msg.Type})
		}
	}
}

// send writes a message on the current connection
func (c *Client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return mdwerror.New("feed: not connected").WithCode(mdwerror.CodeConnectionFailed)
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return mdwerror.Wrap(err, "failed to send message").WithCode(mdwerror.CodeConnectionFailed)
	}
	return nil
}

// Connected reports whether a connection is open
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *Client) status(connected bool, err error) {
	if c.cfg.OnStatus != nil {
		c.cfg.OnStatus(connected, err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
