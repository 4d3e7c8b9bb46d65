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

// Package tui renders the dashboard in the terminal with bubbletea.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carverauto/telemetry-dashboard/pkg/render"
	"github.com/carverauto/telemetry-dashboard/pkg/viewport"
)

const (
	defaultPanelWidth  = 41
	defaultPanelHeight = 21
)

// Frame is a snapshot of the panel and readouts.
type Frame struct {
	Position viewport.Position
	Label    string
	Fields   map[render.Field]string
	Rendered bool
}

func (f Frame) clone() Frame {
	out := f
	out.Fields = make(map[render.Field]string, len(f.Fields))

	for k, v := range f.Fields {
		out.Fields[k] = v
	}

	return out
}

type (
	frameMsg    Frame
	optionsMsg  []string
	selectedMsg string
)

// Surface is the render.Surface and device selector for the terminal UI.
// Updates are forwarded to the attached program.
type Surface struct {
	mu       sync.Mutex
	program  *tea.Program
	width    int
	height   int
	frame    Frame
	aliases  []string
	selected string
}

var _ render.Surface = (*Surface)(nil)

// NewSurface creates a detached surface.
func NewSurface() *Surface {
	return &Surface{
		width:  defaultPanelWidth,
		height: defaultPanelHeight,
		frame:  Frame{Fields: make(map[render.Field]string)},
	}
}

func (s *Surface) attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.program = p
}

func (s *Surface) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}

// Bounds is the panel in character cells. Positions map onto cell indices,
// so the rect is one cell smaller than the grid.
func (s *Surface) Bounds() *viewport.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &viewport.Rect{Width: float64(s.width - 1), Height: float64(s.height - 1)}
}

func (s *Surface) setPanelSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.width, s.height = width, height
}

func (s *Surface) panelSize() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.width, s.height
}

func (s *Surface) SetPosition(pos viewport.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame.Position = pos
}

func (s *Surface) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame.Label = label
}

func (s *Surface) SetField(field render.Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame.Fields[field] = value

	if field == render.FieldInfoUpdated {
		s.frame.Rendered = true
	}
}

// Flush pushes the staged frame to the program.
func (s *Surface) Flush() {
	s.mu.Lock()
	frame := s.frame.clone()
	s.mu.Unlock()

	s.send(frameMsg(frame))
}

func (s *Surface) SetOptions(aliases []string) {
	s.mu.Lock()
	s.aliases = append([]string(nil), aliases...)
	msg := optionsMsg(append([]string(nil), aliases...))
	s.mu.Unlock()

	s.send(msg)
}

func (s *Surface) SetSelected(alias string) {
	s.mu.Lock()
	s.selected = alias
	s.mu.Unlock()

	s.send(selectedMsg(alias))
}

func (s *Surface) snapshot() (Frame, []string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.frame.clone(), append([]string(nil), s.aliases...), s.selected
}
