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

package poller

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/telemetry-dashboard/pkg/api"
	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/render"
)

// State is the controller's polling state.
type State int

const (
	StateIdle State = iota
	StatePolling
)

func (s State) String() string {
	if s == StatePolling {
		return "polling"
	}

	return "idle"
}

// Config holds the polling parameters.
type Config struct {
	Interval time.Duration
}

// Controller owns the single polling session. Switching devices stops the
// old session and starts a new one under one lock; results from any
// session other than the newest are dropped.
type Controller struct {
	fetcher   api.TelemetryFetcher
	presenter render.Presenter
	interval  time.Duration
	clock     Clock
	logger    logger.Logger

	mu         sync.Mutex
	generation uint64
	state      State
	active     *models.Device
	ticker     Ticker
	cancel     context.CancelFunc
	closed     bool

	wg sync.WaitGroup
}

// NewController creates an idle controller. A nil clock uses real time.
func NewController(
	fetcher api.TelemetryFetcher,
	presenter render.Presenter,
	cfg Config,
	clock Clock,
	log logger.Logger,
) (*Controller, error) {
	if fetcher == nil {
		return nil, errNilFetcher
	}

	if presenter == nil {
		return nil, errNilPresenter
	}

	if cfg.Interval <= 0 {
		return nil, ErrInvalidInterval
	}

	if clock == nil {
		clock = realClock{}
	}

	return &Controller{
		fetcher:   fetcher,
		presenter: presenter,
		interval:  cfg.Interval,
		clock:     clock,
		logger:    log,
	}, nil
}

// SelectDevice replaces the current session. The new session fetches at once
// and then on every tick until the next SelectDevice, Stop or Close. A nil
// device leaves the controller idle. ctx bounds the session's lifetime.
func (c *Controller) SelectDevice(ctx context.Context, device *models.Device) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}

	c.stopLocked()

	if device == nil {
		c.logger.Debug().Msg("No device selected, polling idle")

		return nil
	}

	selected := *device
	sessionCtx, cancel := context.WithCancel(ctx)
	ticker := c.clock.Ticker(c.interval)

	c.active = &selected
	c.state = StatePolling
	c.ticker = ticker
	c.cancel = cancel

	c.logger.Info().
		Str("alias", selected.Alias).
		Str("device_id", selected.DeviceID).
		Dur("interval", c.interval).
		Msg("Polling device")

	c.wg.Add(1)

	go c.run(sessionCtx, c.generation, &selected, ticker)

	return nil
}

// Stop ends the current session, if any. It does not wait for an in-flight
// fetch; its result is discarded.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
}

// Close stops polling, waits for the session goroutine to exit and rejects
// further selections.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopLocked()
	c.mu.Unlock()

	c.wg.Wait()
}

// State reports whether a session is running.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// ActiveDevice returns a copy of the polled device, or nil when idle.
func (c *Controller) ActiveDevice() *models.Device {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return nil
	}

	device := *c.active

	return &device
}

// stopLocked invalidates the running session. Safe to call repeatedly.
func (c *Controller) stopLocked() {
	c.generation++

	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if c.active != nil {
		c.logger.Debug().Str("alias", c.active.Alias).Msg("Stopped polling device")
	}

	c.active = nil
	c.state = StateIdle
}

func (c *Controller) run(ctx context.Context, generation uint64, device *models.Device, ticker Ticker) {
	defer c.wg.Done()

	c.poll(ctx, generation, device)

	for {
		select {
		case <-ctx.Done():
			c.endSession(generation)

			return
		case <-ticker.Chan():
			c.poll(ctx, generation, device)
		}
	}
}

func (c *Controller) poll(ctx context.Context, generation uint64, device *models.Device) {
	ctx, span := tracer().Start(ctx, spanPollTick, trace.WithAttributes(
		attribute.String("device.alias", device.Alias),
		attribute.Int64("poller.generation", int64(generation)), //nolint:gosec // generations stay far below 2^63
	))
	defer span.End()

	sample, err := c.fetcher.FetchLatest(ctx, device)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	result := c.apply(ctx, generation, device, sample, err)

	span.SetAttributes(attribute.String("poller.result", result))
	recordTick(ctx, result)
}

// endSession tears down a session whose context ended without Stop, such as
// a cancelled parent context.
func (c *Controller) endSession(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation == c.generation {
		c.stopLocked()
	}
}

// apply hands a fetch result to the presenter if its session is still the
// newest one and reports what happened to it.
func (c *Controller) apply(
	ctx context.Context,
	generation uint64,
	device *models.Device,
	sample *models.TelemetrySample,
	err error,
) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation || ctx.Err() != nil {
		c.logger.Debug().
			Str("alias", device.Alias).
			Uint64("generation", generation).
			Msg("Discarding stale telemetry result")

		return resultStale
	}

	switch {
	case err != nil:
		c.logger.Error().Err(err).Str("alias", device.Alias).Msg("Telemetry fetch failed")
		c.presenter.RenderError(err)

		return resultFailed
	case sample == nil:
		c.logger.Debug().Str("alias", device.Alias).Msg("No usable telemetry sample")

		return resultSkipped
	default:
		c.presenter.Render(*sample)

		return resultRendered
	}
}
