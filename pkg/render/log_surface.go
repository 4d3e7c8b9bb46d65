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
	"sync"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/viewport"
)

// LogSurface is a headless surface that logs one line per completed frame.
// Bounds is a fixed rect, so positions are reported in its units.
type LogSurface struct {
	logger logger.Logger
	rect   viewport.Rect

	mu       sync.Mutex
	position viewport.Position
	label    string
	fields   map[Field]string

	sampleStaged bool
}

var _ Surface = (*LogSurface)(nil)

// NewLogSurface creates a log surface of the given virtual size.
func NewLogSurface(log logger.Logger, width, height float64) *LogSurface {
	return &LogSurface{
		logger: log,
		rect:   viewport.Rect{Width: width, Height: height},
		fields: make(map[Field]string),
	}
}

func (s *LogSurface) Bounds() *viewport.Rect {
	r := s.rect

	return &r
}

func (s *LogSurface) SetPosition(pos viewport.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.position = pos
}

func (s *LogSurface) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.label = label
}

func (s *LogSurface) SetField(field Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fields[field] = value

	if field == FieldInfoUpdated {
		s.sampleStaged = true
	}
}

// Flush logs the staged frame, or a warning when the status shows an error.
func (s *LogSurface) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sampleStaged {
		s.sampleStaged = false

		s.logger.Info().
			Str("device", s.fields[FieldInfoDevice]).
			Str("label", s.label).
			Str("x", s.fields[FieldInfoX]).
			Str("y", s.fields[FieldInfoY]).
			Float64("left", s.position.Left).
			Float64("top", s.position.Top).
			Str("updated", s.fields[FieldInfoUpdated]).
			Msg("Telemetry frame")
	}

	if status := s.fields[FieldStatusDevice]; status == statusError || status == statusInitError {
		s.logger.Warn().Str("status", status).Str("updated", s.fields[FieldStatusUpdated]).Msg("Telemetry status")
	}
}
