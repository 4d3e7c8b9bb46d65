/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package web

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	readTimeout    = 60 * time.Second
	maxMessageSize = 4096
)

// client is one connected browser.
type client struct {
	conn    *websocket.Conn
	send    chan []byte
	selects *rate.Limiter
	logger  logger.Logger

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, selects *rate.Limiter, log logger.Logger) *client {
	return &client{
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		selects: selects,
		logger:  log,
	}
}

// enqueue reports false when the client is closed or its buffer is full.
func (c *client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// writePump owns all writes to conn.
func (c *client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Error closing WebSocket connection")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(defaultWriteTimeout),
			)

			return
		case payload, ok := <-c.send:
			if !ok {
				return
			}

			if err := c.conn.SetWriteDeadline(time.Now().Add(defaultWriteTimeout)); err != nil {
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug().Err(err).Msg("WebSocket write failed")

				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(defaultWriteTimeout)); err != nil {
				return
			}
		}
	}
}

// hub tracks connected clients.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	logger  logger.Logger
}

func newHub(log logger.Logger) *hub {
	return &hub{
		clients: make(map[*client]struct{}),
		logger:  log,
	}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
}

func (h *hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !c.enqueue(payload) {
			h.logger.Warn().
				Str("client_addr", c.conn.RemoteAddr().String()).
				Msg("Dropping slow WebSocket client")
			delete(h.clients, c)
			c.close()
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
