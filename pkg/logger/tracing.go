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

package logger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var ErrOTelTracingDisabled = errors.New("OTel trace exporter disabled")

//nolint:gochecknoglobals // global state is required for coordinated shutdown
var (
	tracerMu       sync.Mutex
	tracerProvider *sdktrace.TracerProvider
)

// TracingConfig configures the OTLP trace pipeline.
type TracingConfig struct {
	ServiceName string
	OTel        *OTelConfig
}

// InitializeTracing installs a global TracerProvider that batches spans to
// an OTLP collector, plus the W3C trace-context propagator used on
// outbound API requests. Calling it again returns the provider created
// first. When exporting is disabled it returns ErrOTelTracingDisabled and
// spans stay no-ops.
func InitializeTracing(ctx context.Context, config TracingConfig) (*sdktrace.TracerProvider, error) {
	if config.OTel == nil || !config.OTel.Enabled || config.OTel.Endpoint == "" {
		return nil, ErrOTelTracingDisabled
	}

	tracerMu.Lock()
	defer tracerMu.Unlock()

	if tracerProvider != nil {
		return tracerProvider, nil
	}

	exporter, err := newTraceExporter(ctx, config.OTel)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, config.OTel.serviceName(config.ServiceName))
	if err != nil {
		return nil, err
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider, nil
}

func newTraceExporter(ctx context.Context, config *OTelConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(config.Endpoint)}

	if config.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	creds, ok, err := config.transportCredentials()
	if err != nil {
		return nil, err
	}

	if ok {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(creds))
	}

	if len(config.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(config.Headers))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	return exporter, nil
}

func shutdownTracerProvider(ctx context.Context) error {
	tracerMu.Lock()
	defer tracerMu.Unlock()

	if tracerProvider == nil {
		return nil
	}

	err := tracerProvider.Shutdown(ctx)
	tracerProvider = nil

	return err
}
