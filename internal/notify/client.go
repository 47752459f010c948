// Taskboard - Project and Task Management with Real-Time Notifications
// Copyright 2026 Nikita Voronin (nvoronin)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvoronin/taskboard

package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/nvoronin/taskboard/internal/config"
	"github.com/nvoronin/taskboard/internal/logging"
	"github.com/nvoronin/taskboard/internal/metrics"
)

// clientIDCounter assigns unique ids so delivery order across a user's
// connections is stable.
var clientIDCounter atomic.Uint64

// Client owns one websocket connection for one user. It pumps payloads
// from its send buffer to the socket and polices the inbound side: any
// frame that is not a well-formed owner frame closes the connection.
type Client struct {
	id       uint64
	userID   int64
	conn     *websocket.Conn
	registry *Registry
	cfg      config.WebSocketConfig
	limiter  *rate.Limiter

	send chan []byte
	done chan struct{}

	closeOnce sync.Once
}

// NewClient wraps an upgraded websocket connection for the given user.
func NewClient(registry *Registry, conn *websocket.Conn, userID int64, cfg config.WebSocketConfig) *Client {
	return &Client{
		id:       clientIDCounter.Add(1),
		userID:   userID,
		conn:     conn,
		registry: registry,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.InboundRate), cfg.InboundBurst),
		send:     make(chan []byte, cfg.SendBufferSize),
		done:     make(chan struct{}),
	}
}

// Start joins the registry and begins the read and write pumps. From this
// point the connection is live and will receive deliveries.
func (c *Client) Start() {
	metrics.TrackWSConnection(true)
	c.registry.Join(c.userID, c)
	go c.writePump()
	go c.readPump()
}

// enqueue attempts a non-blocking handoff to the write pump. It reports
// false when the buffer is full or the client is already closed.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// close leaves the registry and tears down the connection. Safe to call
// from any goroutine; the registry leave happens exactly once.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.registry.Leave(c.userID, c)
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		metrics.TrackWSConnection(false)
	})
}

// readPump polices inbound traffic. Clients may only send owner frames;
// anything else is a protocol violation that closes this connection and no
// other.
func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Debug().Err(err).Uint64("conn_id", c.id).Msg("unexpected websocket close")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()

		if !c.limiter.Allow() {
			metrics.WSErrors.WithLabelValues("rate_limit").Inc()
			logging.Warn().
				Int64("user_id", c.userID).
				Uint64("conn_id", c.id).
				Msg("inbound rate limit exceeded, closing connection")
			c.writeClose(websocket.ClosePolicyViolation, "rate limit exceeded")
			return
		}

		var frame inboundFrame
		if err := parseInboundFrame(data, &frame); err != nil {
			metrics.WSErrors.WithLabelValues("protocol").Inc()
			logging.Debug().
				Err(err).
				Int64("user_id", c.userID).
				Uint64("conn_id", c.id).
				Msg("malformed inbound frame, closing connection")
			c.writeClose(websocket.CloseUnsupportedData, "malformed frame")
			return
		}

		// Well-formed owner frames carry no server-side action.
		logging.Trace().
			Int64("user_id", c.userID).
			Int64("owner", frame.Owner).
			Msg("inbound owner frame")
	}
}

// writePump pushes queued payloads to the socket and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	pingPeriod := (c.cfg.PongWait * 9) / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return

		case payload := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				logging.Debug().
					Err(err).
					Int64("user_id", c.userID).
					Uint64("conn_id", c.id).
					Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeClose sends a close frame before tearing the connection down.
func (c *Client) writeClose(code int, reason string) {
	deadline := time.Now().Add(c.cfg.WriteWait)
	msg := websocket.FormatCloseMessage(code, reason)
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline)
}
