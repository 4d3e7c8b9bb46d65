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

package render

import (
	"math"
	"strconv"
	"time"

	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/viewport"
)

const (
	defaultLabel       = "device"
	placeholder        = "–"
	statusError        = "Error"
	statusInitError    = "Init error"
	timestampLayoutUTC = "2006-01-02T15:04:05.000Z07:00"
)

// Binder implements Presenter on top of a Surface.
type Binder struct {
	surface Surface
	now     func() time.Time
}

var _ Presenter = (*Binder)(nil)

// NewBinder binds surface. now defaults to time.Now.
func NewBinder(surface Surface, now func() time.Time) *Binder {
	if now == nil {
		now = time.Now
	}

	return &Binder{surface: surface, now: now}
}

// Render moves the marker and refreshes both readouts.
func (b *Binder) Render(sample models.TelemetrySample) {
	b.surface.SetPosition(viewport.MapToViewport(sample.X, sample.Y, b.surface.Bounds()))

	updated := sample.Timestamp
	if updated == "" {
		updated = b.timestamp()
	}

	label := sample.Alias
	if label == "" {
		label = defaultLabel
	}

	b.surface.SetLabel(label)
	b.surface.SetField(FieldStatusDevice, label)
	b.surface.SetField(FieldStatusUpdated, updated)
	b.surface.SetField(FieldInfoDevice, label)
	b.surface.SetField(FieldInfoX, FormatCoord(sample.X))
	b.surface.SetField(FieldInfoY, FormatCoord(sample.Y))
	b.surface.SetField(FieldInfoUpdated, updated)
	b.surface.Flush()
}

// RenderError flags a failed poll. The last position stays on screen.
func (b *Binder) RenderError(error) {
	b.surface.SetField(FieldStatusDevice, statusError)
	b.surface.SetField(FieldStatusUpdated, b.timestamp())
	b.surface.Flush()
}

// RenderInitError flags a failed startup.
func (b *Binder) RenderInitError(error) {
	b.surface.SetField(FieldStatusDevice, statusInitError)
	b.surface.SetField(FieldStatusUpdated, b.timestamp())
	b.surface.Flush()
}

func (b *Binder) timestamp() string {
	return b.now().UTC().Format(timestampLayoutUTC)
}

// FormatCoord renders v with two decimals, or a placeholder when v is not finite.
func FormatCoord(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return placeholder
	}

	return strconv.FormatFloat(v, 'f', 2, 64)
}
