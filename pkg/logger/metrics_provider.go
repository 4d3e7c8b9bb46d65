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
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

var ErrOTelMetricsDisabled = errors.New("OTel metrics exporter disabled")

//nolint:gochecknoglobals // global state is required for coordinated shutdown
var (
	meterMu       sync.Mutex
	meterProvider *sdkmetric.MeterProvider
)

const defaultExportInterval = 15 * time.Second

// MetricsConfig configures the OTLP metrics pipeline.
type MetricsConfig struct {
	ServiceName string
	OTel        *OTelConfig
	// ExportInterval controls how often metric data is flushed. Zero means 15s.
	ExportInterval time.Duration
}

// InitializeMetrics installs a global MeterProvider that pushes to an OTLP
// collector. Calling it again returns the provider created first. When
// exporting is disabled it returns ErrOTelMetricsDisabled and instruments
// stay no-ops.
func InitializeMetrics(ctx context.Context, config MetricsConfig) (*sdkmetric.MeterProvider, error) {
	if config.OTel == nil || !config.OTel.Enabled || config.OTel.Endpoint == "" {
		return nil, ErrOTelMetricsDisabled
	}

	meterMu.Lock()
	defer meterMu.Unlock()

	if meterProvider != nil {
		return meterProvider, nil
	}

	exporter, err := newMetricExporter(ctx, config.OTel)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, config.OTel.serviceName(config.ServiceName))
	if err != nil {
		return nil, err
	}

	interval := config.ExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}

	meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)

	otel.SetMeterProvider(meterProvider)

	return meterProvider, nil
}

func newMetricExporter(ctx context.Context, config *OTelConfig) (sdkmetric.Exporter, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(config.Endpoint)}

	if config.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	creds, ok, err := config.transportCredentials()
	if err != nil {
		return nil, err
	}

	if ok {
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(creds))
	}

	if len(config.Headers) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(config.Headers))
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	return exporter, nil
}

func shutdownMeterProvider(ctx context.Context) error {
	meterMu.Lock()
	defer meterMu.Unlock()

	if meterProvider == nil {
		return nil
	}

	err := meterProvider.Shutdown(ctx)
	meterProvider = nil

	return err
}
