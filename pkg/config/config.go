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

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
)

var (
	errInvalidConfigSource = errors.New("invalid CONFIG_SOURCE value")
	errInvalidConfigPtr    = errors.New("config must be a non-nil pointer")
)

const (
	configSourceFile = "file"
	configSourceEnv  = "env"

	defaultEnvPrefix = "DASHBOARD_"
)

// ConfigLoader loads configuration from a source into dst.
type ConfigLoader interface {
	Load(ctx context.Context, path string, dst interface{}) error
}

// Validator is implemented by configuration types that check themselves
// and fill in defaults after loading.
type Validator interface {
	Validate() error
}

// Config holds the configuration loading dependencies.
type Config struct {
	defaultLoader ConfigLoader
	logger        logger.Logger
	envPrefix     string
}

// NewConfig initializes a new Config instance with a default file loader.
// If log is nil, a warn-level stderr logger is used.
func NewConfig(log logger.Logger) *Config {
	if log == nil {
		log = logger.NewZerologLogger(zerolog.New(os.Stderr).
			Level(zerolog.WarnLevel).
			With().
			Timestamp().
			Logger())
	}

	return &Config{
		defaultLoader: &FileConfigLoader{},
		logger:        log,
		envPrefix:     defaultEnvPrefix,
	}
}

// WithEnvPrefix sets the prefix used when CONFIG_SOURCE=env and
// CONFIG_ENV_PREFIX is unset.
func (c *Config) WithEnvPrefix(prefix string) *Config {
	if prefix != "" {
		c.envPrefix = prefix
	}

	return c
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

// LoadAndValidate loads a configuration from the source selected by
// CONFIG_SOURCE and validates it.
func (c *Config) LoadAndValidate(ctx context.Context, path string, cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errInvalidConfigPtr
	}

	loader, err := c.loaderForSource(strings.ToLower(os.Getenv("CONFIG_SOURCE")))
	if err != nil {
		return err
	}

	if err := loader.Load(ctx, path, cfg); err != nil {
		return err
	}

	return ValidateConfig(cfg)
}

func (c *Config) loaderForSource(source string) (ConfigLoader, error) {
	switch source {
	case configSourceEnv:
		prefix := os.Getenv("CONFIG_ENV_PREFIX")
		if prefix == "" {
			prefix = c.envPrefix
		}

		return NewEnvConfigLoader(c.logger, prefix), nil
	case configSourceFile, "":
		return c.defaultLoader, nil
	default:
		return nil, fmt.Errorf("%w: %s (expected '%s' or '%s')",
			errInvalidConfigSource, source, configSourceFile, configSourceEnv)
	}
}
