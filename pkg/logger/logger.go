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

// Package logger provides the dashboard's structured logging: zerolog JSON
// lines to stdout, stderr or a file, optionally mirrored to an OTLP collector.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var errEmptyLogFile = errors.New("log output file path is empty")

const fileOutputPrefix = "file:"

// Config selects the log level and destination.
type Config struct {
	Level string `json:"level" yaml:"level"`
	// Debug forces debug level regardless of Level.
	Debug bool `json:"debug" yaml:"debug"`
	// Output is "stdout", "stderr" or "file:<path>".
	Output     string     `json:"output" yaml:"output"`
	TimeFormat string     `json:"time_format" yaml:"time_format"`
	OTel       OTelConfig `json:"otel" yaml:"otel"`
}

// OpenOutput resolves a configured output name. Files are appended to.
func OpenOutput(output string) (io.Writer, error) {
	path, isFile := strings.CutPrefix(output, fileOutputPrefix)

	switch {
	case isFile && path == "":
		return nil, errEmptyLogFile
	case isFile:
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %q: %w", path, err)
		}

		return f, nil
	case output == "stderr":
		return os.Stderr, nil
	default:
		return os.Stdout, nil
	}
}

// ParseLevel returns the level implied by config, Debug taking precedence.
func ParseLevel(config *Config) (zerolog.Level, error) {
	switch {
	case config.Debug:
		return zerolog.DebugLevel, nil
	case config.Level == "":
		return zerolog.InfoLevel, nil
	default:
		return zerolog.ParseLevel(config.Level)
	}
}

// New builds a zerolog logger from config. A nil config is read from the
// environment by DefaultConfig. When OTel logging is enabled every line is
// also exported; call Shutdown before exiting to flush it.
func New(ctx context.Context, config *Config) (zerolog.Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	output, err := OpenOutput(config.Output)
	if err != nil {
		return zerolog.Logger{}, err
	}

	level, err := ParseLevel(config)
	if err != nil {
		return zerolog.Logger{}, err
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	if config.OTel.Enabled {
		otelWriter, err := NewOTelWriter(ctx, config.OTel)
		if err != nil {
			return zerolog.Logger{}, err
		}

		output = zerolog.MultiLevelWriter(output, otelWriter)
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}
