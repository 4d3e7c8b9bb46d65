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

// Package render turns telemetry samples into updates on an output surface.
package render

import (
	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/viewport"
)

// Presenter receives the outcome of every applied poll.
type Presenter interface {
	Render(sample models.TelemetrySample)
	RenderError(err error)
	RenderInitError(err error)
}

// Field names a text slot of the status and info readouts.
type Field string

const (
	FieldStatusDevice  Field = "status-device"
	FieldStatusUpdated Field = "status-updated"
	FieldInfoDevice    Field = "info-device"
	FieldInfoX         Field = "info-x"
	FieldInfoY         Field = "info-y"
	FieldInfoUpdated   Field = "info-updated"
)

// Fields lists every Field in display order.
func Fields() []Field {
	return []Field{
		FieldStatusDevice,
		FieldStatusUpdated,
		FieldInfoDevice,
		FieldInfoX,
		FieldInfoY,
		FieldInfoUpdated,
	}
}

// Surface is a 2D panel with a single device marker plus text fields.
// Bounds is read on every render so resizes take effect immediately.
// Setters only stage values; Flush commits everything staged since the
// previous Flush as one frame.
type Surface interface {
	Bounds() *viewport.Rect
	SetPosition(pos viewport.Position)
	SetLabel(label string)
	SetField(field Field, value string)
	Flush()
}

type multiPresenter []Presenter

// Multi fans every call out to each non-nil presenter in order.
func Multi(presenters ...Presenter) Presenter {
	out := make(multiPresenter, 0, len(presenters))

	for _, p := range presenters {
		if p != nil {
			out = append(out, p)
		}
	}

	return out
}

func (m multiPresenter) Render(sample models.TelemetrySample) {
	for _, p := range m {
		p.Render(sample)
	}
}

func (m multiPresenter) RenderError(err error) {
	for _, p := range m {
		p.RenderError(err)
	}
}

func (m multiPresenter) RenderInitError(err error) {
	for _, p := range m {
		p.RenderInitError(err)
	}
}
