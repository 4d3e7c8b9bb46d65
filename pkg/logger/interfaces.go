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

//go:generate mockgen -destination=mock_logger.go -package=logger github.com/carverauto/telemetry-dashboard/pkg/logger Logger

package logger

import (
	"io"

	"github.com/rs/zerolog"
)

type Logger interface {
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	Fatal() *zerolog.Event
	Panic() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) zerolog.Logger
	WithFields(fields map[string]interface{}) zerolog.Logger
	SetLevel(level zerolog.Level)
	SetDebug(debug bool)
}

// NewTestLogger creates a no-op logger for testing that discards all output
func NewTestLogger() Logger {
	return NewZerologLogger(zerolog.New(io.Discard).Level(zerolog.Disabled))
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(zl zerolog.Logger) Logger {
	return &zerologLogger{logger: zl}
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (z *zerologLogger) Trace() *zerolog.Event { return z.logger.Trace() }
func (z *zerologLogger) Debug() *zerolog.Event { return z.logger.Debug() }
func (z *zerologLogger) Info() *zerolog.Event  { return z.logger.Info() }
func (z *zerologLogger) Warn() *zerolog.Event  { return z.logger.Warn() }
func (z *zerologLogger) Error() *zerolog.Event { return z.logger.Error() }
func (z *zerologLogger) Fatal() *zerolog.Event { return z.logger.Fatal() }
func (z *zerologLogger) Panic() *zerolog.Event { return z.logger.Panic() }
func (z *zerologLogger) With() zerolog.Context { return z.logger.With() }

func (z *zerologLogger) WithComponent(component string) zerolog.Logger {
	return z.logger.With().Str("component", component).Logger()
}

func (z *zerologLogger) WithFields(fields map[string]interface{}) zerolog.Logger {
	return z.logger.With().Fields(fields).Logger()
}

func (z *zerologLogger) SetLevel(level zerolog.Level) { z.logger = z.logger.Level(level) }

func (z *zerologLogger) SetDebug(debug bool) {
	if debug {
		z.SetLevel(zerolog.DebugLevel)
	} else {
		z.SetLevel(zerolog.InfoLevel)
	}
}
