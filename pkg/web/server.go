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
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/render"
	"github.com/carverauto/telemetry-dashboard/pkg/viewport"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 5 * time.Second

	// panelSize makes positions percentages of the browser panel.
	panelSize = 100
)

//go:embed index.html
var indexHTML []byte

var (
	errSelectUnavailable = errors.New("device selection is not available")
	errSelectThrottled   = errors.New("too many device selections, slow down")
)

// SelectFunc handles a device selection made in the browser.
type SelectFunc func(ctx context.Context, alias string) error

// Server is a render.Surface and device selector backed by browsers.
type Server struct {
	cfg      Config
	router   *mux.Router
	upgrader websocket.Upgrader
	hub      *hub
	logger   logger.Logger

	mu       sync.RWMutex
	baseCtx  context.Context
	onSelect SelectFunc
	frame    Frame
	rendered bool
	aliases  []string
	selected string
}

var _ render.Surface = (*Server)(nil)

// NewServer creates a server. Call OnSelect before serving to accept
// selections from browsers.
func NewServer(cfg Config, log logger.Logger) *Server {
	s := &Server{
		cfg:    cfg.WithDefaults(),
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		hub:     newHub(log),
		logger:  log,
		baseCtx: context.Background(),
		frame:   Frame{Fields: make(map[render.Field]string)},
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(requestLogger(s.logger))
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// OnSelect sets the selection callback.
func (s *Server) OnSelect(fn SelectFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onSelect = fn
}

// Run serves until ctx is done, then shuts down gracefully. Selections made
// in browsers run under ctx.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: defaultReadTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("Web surface listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		s.hub.closeAll()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (*Server) Bounds() *viewport.Rect {
	return &viewport.Rect{Width: panelSize, Height: panelSize}
}

func (s *Server) SetPosition(pos viewport.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame.Left = pos.Left
	s.frame.Top = pos.Top
}

func (s *Server) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame.Label = label
}

func (s *Server) SetField(field render.Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame.Fields[field] = value
}

// Flush broadcasts the staged frame.
func (s *Server) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rendered = true
	s.publishLocked(&Message{Type: MessageFrame, Frame: s.frameLocked()})
}

// SetOptions publishes the device list.
func (s *Server) SetOptions(aliases []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.aliases = append([]string(nil), aliases...)
	s.publishLocked(s.devicesLocked())
}

// SetSelected publishes the selected alias.
func (s *Server) SetSelected(alias string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = alias
	s.publishLocked(s.devicesLocked())
}

// Clients returns the number of connected browsers.
func (s *Server) Clients() int {
	return s.hub.count()
}

func (s *Server) frameLocked() *Frame {
	frame := s.frame
	frame.Fields = make(map[render.Field]string, len(s.frame.Fields))

	for k, v := range s.frame.Fields {
		frame.Fields[k] = v
	}

	return &frame
}

func (s *Server) devicesLocked() *Message {
	return &Message{
		Type:     MessageDevices,
		Aliases:  append([]string{}, s.aliases...),
		Selected: s.selected,
	}
}

// publishLocked broadcasts under s.mu so a connecting client sees either the
// snapshot containing msg or msg itself.
func (s *Server) publishLocked(msg *Message) {
	payload, err := encode(msg)
	if err != nil {
		s.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to encode WebSocket message")

		return
	}

	s.hub.broadcast(payload)
}

func (*Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.hub.count(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("Failed to upgrade to WebSocket")

		return
	}

	c := newClient(conn, rate.NewLimiter(rate.Limit(s.cfg.SelectsPerSecond), s.cfg.SelectBurst), s.logger)

	s.mu.Lock()
	snapshot := []*Message{s.devicesLocked()}

	if s.rendered {
		snapshot = append(snapshot, &Message{Type: MessageFrame, Frame: s.frameLocked()})
	}

	for _, msg := range snapshot {
		if payload, err := encode(msg); err == nil {
			c.enqueue(payload)
		}
	}

	s.hub.add(c)
	baseCtx := s.baseCtx
	s.mu.Unlock()

	s.logger.Info().Str("remote_addr", r.RemoteAddr).Msg("WebSocket client connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go c.writePump(ctx)

	s.readPump(baseCtx, c)
	s.hub.remove(c)

	s.logger.Info().Str("remote_addr", r.RemoteAddr).Msg("WebSocket client disconnected")
}

func (s *Server) readPump(ctx context.Context, c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		var msg ClientMessage

		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Msg("WebSocket read failed")
			}

			return
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.Type != MessageSelect {
			continue
		}

		err := errSelectThrottled
		if c.selects.Allow() {
			err = s.handleSelect(ctx, msg.Alias)
		}

		if err != nil {
			if payload, encErr := encode(&Message{Type: MessageError, Error: err.Error()}); encErr == nil {
				c.enqueue(payload)
			}
		}
	}
}

func (s *Server) handleSelect(ctx context.Context, alias string) error {
	s.mu.RLock()
	fn := s.onSelect
	s.mu.RUnlock()

	if fn == nil {
		return errSelectUnavailable
	}

	s.logger.Debug().Str("alias", alias).Msg("Device selected in browser")

	return fn(ctx, alias)
}
