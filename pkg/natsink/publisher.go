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

// Package natsink publishes dashboard updates to NATS as CloudEvents.
package natsink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/telemetry-dashboard/pkg/api"
	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/render"
)

// CloudEvent types.
const (
	EventTypeSample = "com.carverauto.telemetry.sample"
	EventTypeError  = "com.carverauto.telemetry.error"
)

const (
	cloudEventsSpecVersion = "1.0"
	errorSubjectSuffix     = ".error"
	drainTimeout           = 5 * time.Second

	stagePoll = "poll"
	stageInit = "init"
)

// Publisher is a render.Presenter that forwards every update to NATS.
// Publish failures are logged and never reach the caller.
type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	cfg    Config
	logger logger.Logger
	now    func() time.Time
}

var _ render.Presenter = (*Publisher)(nil)

// Connect dials NATS and, when cfg.Stream is set, ensures the JetStream
// stream exists.
func Connect(ctx context.Context, cfg Config, log logger.Logger, opts ...nats.Option) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts = append([]nats.Option{
		nats.Name(cfg.Name),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}, opts...)

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p := &Publisher{nc: nc, cfg: cfg, logger: log, now: time.Now}

	if cfg.Stream != "" {
		js, err := ensureStream(ctx, nc, cfg)
		if err != nil {
			nc.Close()

			return nil, err
		}

		p.js = js
	}

	log.Info().
		Str("url", nc.ConnectedUrl()).
		Str("subject", cfg.Subject).
		Str("stream", cfg.Stream).
		Msg("Publishing telemetry to NATS")

	return p, nil
}

func ensureStream(ctx context.Context, nc *nats.Conn, cfg Config) (jetstream.JetStream, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if _, err := js.Stream(ctx, cfg.Stream); err == nil {
		return js, nil
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.Subject, cfg.Subject + errorSubjectSuffix},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create or get stream %s: %w", cfg.Stream, err)
	}

	return js, nil
}

// Render publishes a sample event.
func (p *Publisher) Render(sample models.TelemetrySample) {
	p.publish(p.cfg.Subject, EventTypeSample, sample.Alias, models.TelemetryEventData{
		Alias:     sample.Alias,
		X:         sample.X,
		Y:         sample.Y,
		Timestamp: sample.Timestamp,
	})
}

// RenderError publishes a poll failure event.
func (p *Publisher) RenderError(err error) {
	p.publishError(stagePoll, err)
}

// RenderInitError publishes a startup failure event.
func (p *Publisher) RenderInitError(err error) {
	p.publishError(stageInit, err)
}

func (p *Publisher) publishError(stage string, err error) {
	data := models.TelemetryErrorData{Stage: stage, StatusCode: api.StatusCodeOf(err)}
	if err != nil {
		data.Error = err.Error()
	}

	p.publish(p.cfg.Subject+errorSubjectSuffix, EventTypeError, stage, data)
}

func (p *Publisher) publish(subject, eventType, eventSubject string, data interface{}) {
	now := p.now().UTC()

	event := models.CloudEvent{
		SpecVersion:     cloudEventsSpecVersion,
		ID:              uuid.New().String(),
		Source:          p.cfg.Source,
		Type:            eventType,
		DataContentType: "application/json",
		Subject:         eventSubject,
		Time:            &now,
		Data:            data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("type", eventType).Msg("Failed to marshal telemetry event")

		return
	}

	if p.js != nil {
		if _, err := p.js.PublishAsync(subject, payload); err != nil {
			p.logger.Error().Err(err).Str("subject", subject).Msg("Failed to publish telemetry event")
		}

		return
	}

	if err := p.nc.Publish(subject, payload); err != nil {
		p.logger.Error().Err(err).Str("subject", subject).Msg("Failed to publish telemetry event")
	}
}

// Close flushes pending publishes and closes the connection.
func (p *Publisher) Close() {
	if p.js != nil {
		select {
		case <-p.js.PublishAsyncComplete():
		case <-time.After(drainTimeout):
			p.logger.Warn().Int("pending", p.js.PublishAsyncPending()).Msg("Timed out waiting for JetStream acks")
		}
	}

	if err := p.nc.FlushTimeout(drainTimeout); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to flush NATS connection")
	}

	p.nc.Close()
}
