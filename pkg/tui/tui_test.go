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

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/render"
	"github.com/carverauto/telemetry-dashboard/pkg/viewport"
)

func TestSurface_BoundsFollowPanelSize(t *testing.T) {
	s := NewSurface()
	assert.Equal(t, &viewport.Rect{Width: defaultPanelWidth - 1, Height: defaultPanelHeight - 1}, s.Bounds())

	m := newModel(context.Background(), s, Options{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	w, h := s.panelSize()
	assert.Equal(t, 100-sidebarWidth-chromeWidth, w)
	assert.Equal(t, 40-chromeHeight, h)

	m.Update(tea.WindowSizeMsg{Width: 10, Height: 5})

	w, h = s.panelSize()
	assert.Equal(t, minPanelWidth, w)
	assert.Equal(t, minPanelHeight, h)
}

func TestSurface_DetachedUpdatesDoNotBlock(t *testing.T) {
	s := NewSurface()
	binder := render.NewBinder(s, nil)

	s.SetOptions([]string{"d1", "d2"})
	s.SetSelected("d2")
	binder.Render(models.TelemetrySample{Alias: "d2", X: 0, Y: 0, Timestamp: "t1"})

	frame, aliases, selected := s.snapshot()
	assert.True(t, frame.Rendered)
	assert.Equal(t, "d2", frame.Label)
	assert.Equal(t, viewport.Position{Left: 20, Top: 10}, frame.Position)
	assert.Equal(t, []string{"d1", "d2"}, aliases)
	assert.Equal(t, "d2", selected)
}

func TestModel_RendersFrame(t *testing.T) {
	m := newModel(context.Background(), NewSurface(), Options{})

	m.Update(optionsMsg{"d1", "d2"})
	m.Update(frameMsg(Frame{
		Position: viewport.Position{Left: 0, Top: 0},
		Label:    "d1",
		Rendered: true,
		Fields: map[render.Field]string{
			render.FieldStatusDevice: "d1",
			render.FieldInfoX:        "-100.00",
			render.FieldInfoY:        "100.00",
		},
	}))

	view := m.View()
	assert.Contains(t, view, "d1")
	assert.Contains(t, view, "-100.00")
	assert.Contains(t, view, "●")
}

func TestModel_RenderPanelPlacesMarker(t *testing.T) {
	m := newModel(context.Background(), NewSurface(), Options{})
	m.styles = styles{}

	m.frame = Frame{Position: viewport.Position{Left: 4, Top: 0}, Label: "ab", Rendered: true}

	lines := strings.Split(m.renderPanel(9, 3), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "    ● ab", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "────┼────", lines[1])

	m.frame.Position = viewport.Position{Left: 50, Top: 50}
	assert.NotContains(t, m.renderPanel(9, 3), "●")
}

func TestModel_EnterSelectsDevice(t *testing.T) {
	var got string

	m := newModel(context.Background(), NewSurface(), Options{
		OnSelect: func(_ context.Context, alias string) error {
			got = alias

			return nil
		},
	})
	m.Update(optionsMsg{"d1", "d2"})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	m.Update(msg)

	assert.Equal(t, "d2", got)
	assert.Contains(t, m.View(), "Polling d2")
}

func TestModel_SelectErrorShown(t *testing.T) {
	m := newModel(context.Background(), NewSurface(), Options{
		OnSelect: func(context.Context, string) error { return errors.New("controller is closed") },
	})
	m.Update(optionsMsg{"d1"})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Contains(t, m.View(), "controller is closed")
}

func TestModel_CopyDeviceID(t *testing.T) {
	var copied string

	m := newModel(context.Background(), NewSurface(), Options{
		Lookup: func(alias string) *models.Device {
			return &models.Device{DeviceID: "uuid-" + alias, Alias: alias}
		},
		Copy: func(text string) error {
			copied = text

			return nil
		},
	})
	m.Update(optionsMsg{"d1", "d2"})
	m.Update(selectedMsg("d2"))

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})

	assert.Equal(t, "uuid-d2", copied)
}

func TestModel_Quit(t *testing.T) {
	m := newModel(context.Background(), NewSurface(), Options{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
