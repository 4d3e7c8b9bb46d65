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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	meterName       = "telemetry-dashboard.poller"
	metricPollTicks = "dashboard.poller.ticks"
	spanPollTick    = "poller.tick"
)

// Tick outcomes recorded on the ticks counter.
const (
	resultRendered = "rendered"
	resultSkipped  = "skipped"
	resultFailed   = "failed"
	resultStale    = "stale"
)

var (
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	tickCounter metric.Int64Counter
)

func tracer() trace.Tracer {
	return otel.Tracer(meterName)
}

func initMeter() {
	counter, err := otel.Meter(meterName).Int64Counter(
		metricPollTicks,
		metric.WithDescription("Telemetry poll ticks by outcome"),
	)
	if err != nil {
		otel.Handle(err)
	}

	tickCounter = counter
}

func recordTick(ctx context.Context, result string) {
	meterOnce.Do(initMeter)

	if tickCounter == nil {
		return
	}

	tickCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
