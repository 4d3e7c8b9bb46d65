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

package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
)

func TestNew_LevelAndOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.log")

	zl, err := New(context.Background(), &Config{Level: "warn", Output: "file:" + path})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, zl.GetLevel())

	zl.Info().Msg("dropped")
	zl.Warn().Str("alias", "d1").Msg("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"alias":"d1"`)
}

func TestNew_DebugOverridesLevel(t *testing.T) {
	zl, err := New(context.Background(), &Config{Level: "error", Debug: true, Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, zl.GetLevel())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(context.Background(), &Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNew_OTelWithoutEndpoint(t *testing.T) {
	_, err := New(context.Background(), &Config{OTel: OTelConfig{Enabled: true}})
	assert.ErrorIs(t, err, ErrOTelEndpointRequired)
}

func TestOpenOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.log")

	w, err := OpenOutput("file:" + path)
	require.NoError(t, err)

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	_, err = OpenOutput("file:")
	assert.ErrorIs(t, err, errEmptyLogFile)
}

func TestOpenOutput_Streams(t *testing.T) {
	w, err := OpenOutput("stderr")
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, w)

	w, err = OpenOutput("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)
}

func TestZerologLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer

	l := NewZerologLogger(zerolog.New(&buf))
	component := l.WithComponent("poller")
	component.Info().Msg("tick")

	assert.Contains(t, buf.String(), `"component":"poller"`)
}

func TestZerologLogger_SetDebug(t *testing.T) {
	var buf bytes.Buffer

	l := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))
	l.Debug().Msg("hidden")

	l.SetDebug(true)
	l.Debug().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestDefaultConfig_FromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_OUTPUT", "stderr")
	t.Setenv("DEBUG", "off")
	t.Setenv("OTEL_LOGS_ENABLED", "yes")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_HEADERS", "authorization=Bearer x, tenant = dash ,broken")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_TIMEOUT", "2s")
	t.Setenv("OTEL_SERVICE_NAME", "")

	config := DefaultConfig()

	assert.Equal(t, "warn", config.Level)
	assert.Equal(t, "stderr", config.Output)
	assert.False(t, config.Debug)
	assert.True(t, config.OTel.Enabled)
	assert.Equal(t, "collector:4317", config.OTel.Endpoint)
	assert.Equal(t, map[string]string{"authorization": "Bearer x", "tenant": "dash"}, config.OTel.Headers)
	assert.Equal(t, "2s", config.OTel.BatchTimeout.String())
	assert.Equal(t, defaultServiceName, config.OTel.ServiceName)
}

func TestNewOTelWriter_Disabled(t *testing.T) {
	writer, err := NewOTelWriter(context.Background(), OTelConfig{Enabled: false})
	require.ErrorIs(t, err, ErrOTelLoggingDisabled)
	assert.Nil(t, writer)

	_, err = NewOTelWriter(context.Background(), OTelConfig{Enabled: true})
	assert.ErrorIs(t, err, ErrOTelEndpointRequired)
}

func TestInitializeMetrics_Disabled(t *testing.T) {
	_, err := InitializeMetrics(context.Background(), MetricsConfig{})
	assert.ErrorIs(t, err, ErrOTelMetricsDisabled)

	_, err = InitializeMetrics(context.Background(), MetricsConfig{OTel: &OTelConfig{Enabled: true}})
	assert.ErrorIs(t, err, ErrOTelMetricsDisabled)
}

func TestInitializeTracing_Disabled(t *testing.T) {
	_, err := InitializeTracing(context.Background(), TracingConfig{})
	assert.ErrorIs(t, err, ErrOTelTracingDisabled)
}

func TestShutdown_NothingStarted(t *testing.T) {
	assert.NoError(t, Shutdown())
}

func TestOTelConfig_TLSCredentials(t *testing.T) {
	_, ok, err := OTelConfig{Insecure: true, TLS: &TLSConfig{CAFile: "/nonexistent"}}.transportCredentials()
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = OTelConfig{TLS: &TLSConfig{CAFile: filepath.Join(t.TempDir(), "missing.pem")}}.transportCredentials()
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, os.WriteFile(bad, []byte("not a certificate"), 0o600))

	_, _, err = OTelConfig{TLS: &TLSConfig{CAFile: bad}}.transportCredentials()
	assert.ErrorIs(t, err, errFailedToParseCACert)
}

func TestOTelConfig_ServiceName(t *testing.T) {
	assert.Equal(t, "custom", OTelConfig{ServiceName: "custom"}.serviceName("dashboard"))
	assert.Equal(t, "dashboard", OTelConfig{}.serviceName("dashboard"))
	assert.Equal(t, defaultServiceName, OTelConfig{}.serviceName(""))
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, otellog.SeverityWarn, severityOf(zerolog.WarnLevel))
	assert.Equal(t, otellog.SeverityFatal, severityOf(zerolog.PanicLevel))
	assert.Equal(t, otellog.SeverityInfo, severityOf(zerolog.NoLevel))
}

func TestAttributeOf(t *testing.T) {
	assert.Equal(t, otellog.KindFloat64, attributeOf("x", 12.5).Value.Kind())
	assert.Equal(t, otellog.KindBool, attributeOf("ok", true).Value.Kind())
	assert.Equal(t, "null", attributeOf("n", nil).Value.AsString())
	assert.Equal(t, `{"a":1}`, attributeOf("m", map[string]interface{}{"a": 1}).Value.AsString())
}

func TestTruncate(t *testing.T) {
	got := truncate(strings.Repeat("x", maxAttributeValueLength+10))
	assert.Len(t, got, maxAttributeValueLength)
	assert.True(t, strings.HasSuffix(got, "..."))

	assert.Equal(t, "short", truncate("short"))
}
