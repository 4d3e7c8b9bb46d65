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
	"fmt"
	"math"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/render"
)

const (
	sidebarWidth   = 24
	chromeWidth    = 12
	chromeHeight   = 14
	minPanelWidth  = 11
	minPanelHeight = 5
	placeholder    = "–"
)

// Options wires the terminal UI to the rest of the dashboard.
type Options struct {
	// OnSelect is called when the user picks a device.
	OnSelect func(ctx context.Context, alias string) error
	// Lookup resolves an alias for copying its device UUID.
	Lookup func(alias string) *models.Device
	// Copy writes to the clipboard. Defaults to clipboard.WriteAll.
	Copy func(text string) error
}

type deviceItem string

func (d deviceItem) FilterValue() string { return string(d) }
func (d deviceItem) Title() string       { return string(d) }
func (deviceItem) Description() string   { return "" }

type selectResultMsg struct {
	alias string
	err   error
}

type model struct {
	ctx     context.Context
	surface *Surface
	opts    Options
	styles  styles
	list    list.Model

	frame    Frame
	selected string
	notice   string
	err      error
}

func newModel(ctx context.Context, surface *Surface, opts Options) *model {
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, sidebarWidth, defaultPanelHeight)
	l.Title = "Devices"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color(draculaForeground)).
		Background(lipgloss.Color(draculaPurple)).
		Padding(0, 1)

	m := &model{
		ctx:     ctx,
		surface: surface,
		opts:    opts,
		styles:  newStyles(),
		list:    l,
	}

	frame, aliases, selected := surface.snapshot()
	m.frame = frame
	m.setOptions(aliases)
	m.setSelected(selected)

	return m
}

func (*model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

		return m, nil
	case frameMsg:
		m.frame = Frame(msg)

		return m, nil
	case optionsMsg:
		m.setOptions(msg)

		return m, nil
	case selectedMsg:
		m.setSelected(string(msg))

		return m, nil
	case selectResultMsg:
		m.err = msg.err
		if msg.err == nil {
			m.notice = "Polling " + msg.alias
		}

		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering {
			if next, cmd, handled := m.handleKey(msg); handled {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit, true
	case "enter":
		item, ok := m.list.SelectedItem().(deviceItem)
		if !ok {
			return m, nil, true
		}

		return m, m.selectCmd(string(item)), true
	case "c":
		m.copyDeviceID()

		return m, nil, true
	}

	return m, nil, false
}

func (m *model) selectCmd(alias string) tea.Cmd {
	if m.opts.OnSelect == nil {
		return nil
	}

	ctx, onSelect := m.ctx, m.opts.OnSelect

	return func() tea.Msg {
		return selectResultMsg{alias: alias, err: onSelect(ctx, alias)}
	}
}

func (m *model) copyDeviceID() {
	alias := m.selected
	if item, ok := m.list.SelectedItem().(deviceItem); ok {
		alias = string(item)
	}

	if alias == "" || m.opts.Lookup == nil {
		return
	}

	device := m.opts.Lookup(alias)
	if device == nil {
		return
	}

	if err := m.opts.Copy(device.DeviceID); err != nil {
		m.err = fmt.Errorf("failed to copy to clipboard: %w", err)

		return
	}

	m.err = nil
	m.notice = "Copied " + alias + " UUID to clipboard"
}

func (m *model) resize(width, height int) {
	panelWidth := max(width-sidebarWidth-chromeWidth, minPanelWidth)
	panelHeight := max(height-chromeHeight, minPanelHeight)

	m.surface.setPanelSize(panelWidth, panelHeight)
	m.list.SetSize(sidebarWidth, panelHeight+2)
}

func (m *model) setOptions(aliases []string) {
	items := make([]list.Item, 0, len(aliases))
	for _, alias := range aliases {
		items = append(items, deviceItem(alias))
	}

	m.list.SetItems(items)
	m.setSelected(m.selected)
}

func (m *model) setSelected(alias string) {
	m.selected = alias

	for i, item := range m.list.Items() {
		if string(item.(deviceItem)) == alias {
			m.list.Select(i)

			return
		}
	}
}

func (m *model) View() string {
	var content strings.Builder

	content.WriteString(m.styles.title.Render("Telemetry Dashboard") + "\n\n")

	width, height := m.surface.panelSize()
	panel := m.styles.panel.Render(m.renderPanel(width, height))

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), "  ", panel)
	content.WriteString(body + "\n\n")
	content.WriteString(m.renderReadouts() + "\n\n")

	switch {
	case m.err != nil:
		content.WriteString(m.styles.error.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	case m.notice != "":
		content.WriteString(m.styles.success.Render(m.notice) + "\n")
	}

	content.WriteString(m.styles.help.Render("↑/↓ move | / filter | Enter select | c copy UUID | q quit"))

	return m.styles.app.Render(content.String())
}

// renderPanel draws a width×height grid with centre axes and the marker.
// Positions outside the grid are not drawn.
func (m *model) renderPanel(width, height int) string {
	col, row := -1, -1

	if m.frame.Rendered {
		col = int(math.Round(m.frame.Position.Left))
		row = int(math.Round(m.frame.Position.Top))
	}

	label := []rune(m.frame.Label)
	midCol, midRow := width/2, height/2

	var b strings.Builder

	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			switch {
			case r == row && c == col:
				b.WriteString(m.styles.marker.Render("●"))
			case r == row && c > col && col >= 0 && c-col-2 >= 0 && c-col-2 < len(label):
				b.WriteString(m.styles.marker.Render(string(label[c-col-2])))
			case r == midRow && c == midCol:
				b.WriteString(m.styles.axis.Render("┼"))
			case c == midCol:
				b.WriteString(m.styles.axis.Render("│"))
			case r == midRow:
				b.WriteString(m.styles.axis.Render("─"))
			default:
				b.WriteByte(' ')
			}
		}

		if r < height-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func (m *model) renderReadouts() string {
	field := func(f render.Field) string {
		if v := m.frame.Fields[f]; v != "" {
			return v
		}

		return placeholder
	}

	status := field(render.FieldStatusDevice)

	statusLine := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.label.Render("Status  "),
		m.styles.status(status).Render(status),
		m.styles.label.Render("  at "),
		m.styles.value.Render(field(render.FieldStatusUpdated)),
	)

	infoLine := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.label.Render("Info    "),
		m.styles.value.Render(field(render.FieldInfoDevice)),
		m.styles.label.Render("  x "),
		m.styles.value.Render(field(render.FieldInfoX)),
		m.styles.label.Render("  y "),
		m.styles.value.Render(field(render.FieldInfoY)),
		m.styles.label.Render("  at "),
		m.styles.value.Render(field(render.FieldInfoUpdated)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, statusLine, infoLine)
}
