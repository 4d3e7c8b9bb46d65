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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
)

var errMissingURL = errors.New("url is required")

type testSinkConfig struct {
	URL     string `json:"url"`
	Subject string `json:"subject"`
}

type testConfig struct {
	BaseURL  string          `json:"base_url"`
	Interval models.Duration `json:"interval"`
	Timeout  time.Duration   `json:"timeout"`
	Debug    bool            `json:"debug"`
	Ratio    float64         `json:"ratio"`
	Retries  int             `json:"retries"`
	Tags     []string        `json:"tags"`
	Sink     *testSinkConfig `json:"sink,omitempty"`
	Logging  logger.Config   `json:"logging"`
}

func (c *testConfig) Validate() error {
	if c.BaseURL == "" {
		return errMissingURL
	}

	return nil
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dashboard.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadAndValidate_File(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeConfigFile(t, `{"base_url":"http://localhost:8080","interval":"3s","sink":{"url":"nats://x"}}`)

	var cfg testConfig

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, models.Duration(3*time.Second), cfg.Interval)
	require.NotNil(t, cfg.Sink)
	assert.Equal(t, "nats://x", cfg.Sink.URL)
}

func TestLoadAndValidate_YAMLFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: http://localhost:8080\ninterval: 250ms\nsink:\n  url: nats://x\n"), 0o600))

	var cfg testConfig

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, models.Duration(250*time.Millisecond), cfg.Interval)
	require.NotNil(t, cfg.Sink)
	assert.Equal(t, "nats://x", cfg.Sink.URL)
}

func TestLoadAndValidate_ValidationError(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "file")

	path := writeConfigFile(t, `{"interval":"3s"}`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	assert.ErrorIs(t, err, errMissingURL)
}

func TestLoadAndValidate_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), filepath.Join(t.TempDir(), "nope.json"), &cfg)
	assert.Error(t, err)
}

func TestLoadAndValidate_InvalidSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "kv")

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg)
	assert.ErrorIs(t, err, errInvalidConfigSource)
}

func TestLoadAndValidate_NilPointer(t *testing.T) {
	var cfg *testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "", cfg)
	assert.ErrorIs(t, err, errInvalidConfigPtr)
}

func TestEnvConfigLoader_Fields(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "TEST_")
	t.Setenv("TEST_BASE_URL", "http://api.local")
	t.Setenv("TEST_INTERVAL", "1s")
	t.Setenv("TEST_TIMEOUT", "250ms")
	t.Setenv("TEST_DEBUG", "true")
	t.Setenv("TEST_RATIO", "0.5")
	t.Setenv("TEST_RETRIES", "2")
	t.Setenv("TEST_TAGS", `["a","b"]`)
	t.Setenv("TEST_LOGGING_LEVEL", "debug")

	var cfg testConfig

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg)
	require.NoError(t, err)

	assert.Equal(t, "http://api.local", cfg.BaseURL)
	assert.Equal(t, models.Duration(time.Second), cfg.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.True(t, cfg.Debug)
	assert.InDelta(t, 0.5, cfg.Ratio, 1e-9)
	assert.Equal(t, 2, cfg.Retries)
	assert.Equal(t, []string{"a", "b"}, cfg.Tags)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Nil(t, cfg.Sink, "unconfigured pointer structs stay nil")
}

func TestEnvConfigLoader_NestedPointer(t *testing.T) {
	t.Setenv("TEST_BASE_URL", "http://api.local")
	t.Setenv("TEST_SINK_SUBJECT", "telemetry.samples")

	var cfg testConfig

	err := NewEnvConfigLoader(logger.NewTestLogger(), "TEST_").Load(context.Background(), "", &cfg)
	require.NoError(t, err)
	require.NotNil(t, cfg.Sink)
	assert.Equal(t, "telemetry.samples", cfg.Sink.Subject)
}

func TestEnvConfigLoader_ConfigJSON(t *testing.T) {
	t.Setenv("TEST_CONFIG_JSON", `{"base_url":"http://json.local","retries":5}`)
	t.Setenv("TEST_BASE_URL", "http://ignored")

	var cfg testConfig

	err := NewEnvConfigLoader(logger.NewTestLogger(), "TEST_").Load(context.Background(), "", &cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://json.local", cfg.BaseURL)
	assert.Equal(t, 5, cfg.Retries)
}

func TestEnvConfigLoader_BadValues(t *testing.T) {
	t.Setenv("TEST_INTERVAL", "often")

	var cfg testConfig

	err := NewEnvConfigLoader(logger.NewTestLogger(), "TEST_").Load(context.Background(), "", &cfg)
	assert.Error(t, err)

	var notStruct string

	err = NewEnvConfigLoader(logger.NewTestLogger(), "TEST_").Load(context.Background(), "", &notStruct)
	assert.ErrorIs(t, err, ErrDstMustBePointerToStruct)
}

func TestLoadAndValidate_EnvPrefixOverride(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "")
	t.Setenv("SIMULATOR_BASE_URL", "http://sim.local")

	var cfg testConfig

	err := NewConfig(logger.NewTestLogger()).
		WithEnvPrefix("SIMULATOR_").
		LoadAndValidate(context.Background(), "", &cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://sim.local", cfg.BaseURL)
}
