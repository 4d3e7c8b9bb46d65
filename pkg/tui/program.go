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

	tea "github.com/charmbracelet/bubbletea"
)

// Program is the terminal UI bound to a surface.
type Program struct {
	program *tea.Program
	ctx     context.Context
}

// NewProgram creates the program and attaches it to surface. Updates sent to
// surface block until Run has started, so start producers after calling it.
func NewProgram(ctx context.Context, surface *Surface, opts Options, teaOpts ...tea.ProgramOption) *Program {
	teaOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, teaOpts...)

	p := tea.NewProgram(newModel(ctx, surface, opts), teaOpts...)
	surface.attach(p)

	return &Program{program: p, ctx: ctx}
}

// Run blocks until the user quits or ctx is done.
func (p *Program) Run() error {
	_, err := p.program.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && p.ctx.Err() != nil {
		return nil
	}

	return err
}

// Quit asks the program to exit.
func (p *Program) Quit() {
	p.program.Quit()
}
