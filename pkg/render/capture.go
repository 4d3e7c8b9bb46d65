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
	"errors"
	"sync"

	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/viewport"
)

// CaptureSurface records every update. It also implements Presenter so it
// can stand in for the whole rendering stack.
type CaptureSurface struct {
	mu sync.Mutex

	rect     *viewport.Rect
	position viewport.Position
	label    string
	fields   map[Field]string
	frames   []map[Field]string

	samples    []models.TelemetrySample
	errs       []error
	initErrors []error
}

var (
	_ Surface   = (*CaptureSurface)(nil)
	_ Presenter = (*CaptureSurface)(nil)
)

// NewCaptureSurface creates a capture surface with the given bounds.
func NewCaptureSurface(width, height float64) *CaptureSurface {
	return &CaptureSurface{
		rect:   &viewport.Rect{Width: width, Height: height},
		fields: make(map[Field]string),
	}
}

func (c *CaptureSurface) Bounds() *viewport.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rect == nil {
		return nil
	}

	r := *c.rect

	return &r
}

// Resize changes the bounds returned by later Bounds calls.
func (c *CaptureSurface) Resize(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rect = &viewport.Rect{Width: width, Height: height}
}

func (c *CaptureSurface) SetPosition(pos viewport.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.position = pos
}

func (c *CaptureSurface) SetLabel(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.label = label
}

func (c *CaptureSurface) SetField(field Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fields[field] = value
}

// Flush records a copy of the staged fields as one committed frame.
func (c *CaptureSurface) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	frame := make(map[Field]string, len(c.fields))
	for k, v := range c.fields {
		frame[k] = v
	}

	c.frames = append(c.frames, frame)
}

// Frames returns the fields as they stood at each Flush.
func (c *CaptureSurface) Frames() []map[Field]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]map[Field]string(nil), c.frames...)
}

func (c *CaptureSurface) Position() viewport.Position {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.position
}

func (c *CaptureSurface) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.label
}

func (c *CaptureSurface) Field(field Field) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fields[field]
}

func (c *CaptureSurface) Render(sample models.TelemetrySample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.samples = append(c.samples, sample)
}

func (c *CaptureSurface) RenderError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errs = append(c.errs, err)
}

func (c *CaptureSurface) RenderInitError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.initErrors = append(c.initErrors, err)
}

// Samples returns a copy of every rendered sample.
func (c *CaptureSurface) Samples() []models.TelemetrySample {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]models.TelemetrySample(nil), c.samples...)
}

// LastSample returns the most recent rendered sample.
func (c *CaptureSurface) LastSample() (models.TelemetrySample, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.samples) == 0 {
		return models.TelemetrySample{}, false
	}

	return c.samples[len(c.samples)-1], true
}

// Errors returns the errors passed to RenderError.
func (c *CaptureSurface) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]error(nil), c.errs...)
}

func (c *CaptureSurface) InitErrors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]error(nil), c.initErrors...)
}

// Err joins every recorded error.
func (c *CaptureSurface) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return errors.Join(append(append([]error(nil), c.initErrors...), c.errs...)...)
}
