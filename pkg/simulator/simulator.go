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

package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/carverauto/telemetry-dashboard/pkg/api"
	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/poller"
	"github.com/carverauto/telemetry-dashboard/pkg/version"
	"github.com/carverauto/telemetry-dashboard/pkg/viewport"
)

const (
	coordRange       = viewport.LogicalMax - viewport.LogicalMin
	deviceTimeLayout = "2006-01-02T15:04:05.000000Z07:00"
	maxErrorBody     = 4096
)

// Simulator sends one telemetry sample per device per interval.
type Simulator struct {
	cfg     Config
	devices []Device
	client  api.HTTPDoer
	clock   poller.Clock
	logger  logger.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client api.HTTPDoer) Option {
	return func(s *Simulator) {
		s.client = client
	}
}

// WithClock replaces the real clock.
func WithClock(clock poller.Clock) Option {
	return func(s *Simulator) {
		s.clock = clock
	}
}

// WithRand seeds coordinates deterministically.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		s.rand = r
	}
}

// New creates a simulator. cfg must already be validated.
func New(cfg Config, devices []Device, log logger.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		cfg:     cfg,
		devices: devices,
		client:  &http.Client{Timeout: time.Duration(cfg.RequestTimeout)},
		clock:   poller.RealClock(),
		logger:  log,
		rand:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run sends a cycle immediately and then every interval until ctx is done.
func (s *Simulator) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.Interval)

	s.logger.Info().
		Str("target_url", s.cfg.TargetURL).
		Dur("interval", interval).
		Int("devices", len(s.devices)).
		Msg("Starting telemetry simulator")

	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		start := s.clock.Now()
		sent := s.RunCycle(ctx)

		s.logger.Info().
			Int("sent", sent).
			Dur("elapsed", s.clock.Now().Sub(start)).
			Msg("Cycle complete")

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Shutting down telemetry simulator")

			return nil
		case <-ticker.Chan():
		}
	}
}

// RunCycle sends one sample for every device and returns how many were
// accepted. Failures are logged and do not stop the cycle.
func (s *Simulator) RunCycle(ctx context.Context) int {
	sent := 0

	for _, device := range s.devices {
		if ctx.Err() != nil {
			break
		}

		payload := s.payload()

		if err := s.send(ctx, device, payload); err != nil {
			s.logger.Warn().Err(err).Str("alias", device.Alias).Msg("Telemetry send failed")

			continue
		}

		s.logger.Info().
			Str("alias", device.Alias).
			Float64("x", payload.XCoord).
			Float64("y", payload.YCoord).
			Msg("Sent telemetry")

		sent++
	}

	return sent
}

func (s *Simulator) payload() models.TelemetryPayload {
	s.randMu.Lock()
	x := viewport.LogicalMin + s.rand.Float64()*coordRange
	y := viewport.LogicalMin + s.rand.Float64()*coordRange
	s.randMu.Unlock()

	return models.TelemetryPayload{
		XCoord:     x,
		YCoord:     y,
		DeviceTime: s.clock.Now().UTC().Format(deviceTimeLayout),
	}
}

func (s *Simulator) send(ctx context.Context, device Device, payload models.TelemetryPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	reqURL := s.cfg.TargetURL + "/" + url.PathEscape(device.UUID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent("simulator"))
	req.Header.Set(api.APIKeyHeader, device.Alias)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return fmt.Errorf("%w: %d %s, body=%s", errUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode), respBody)
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
