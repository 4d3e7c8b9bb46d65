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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

var (
	ErrOTelLoggingDisabled  = errors.New("OTel logging is disabled")
	ErrOTelEndpointRequired = errors.New("OTel endpoint is required when enabled")
)

const (
	maxAttributeValueLength = 4096
	defaultLoggerScope      = "telemetry-dashboard"
	componentField          = "component"
	shutdownTimeout         = 10 * time.Second
)

//nolint:gochecknoglobals // needed for proper OTel shutdown handling
var (
	logProviderMu sync.Mutex
	logProvider   *sdklog.LoggerProvider
)

// OTelWriter is a zerolog.LevelWriter that re-emits each JSON line as an
// OTel log record. The "component" field selects the instrumentation scope.
type OTelWriter struct {
	ctx      context.Context
	provider *sdklog.LoggerProvider

	mu      sync.Mutex
	loggers map[string]otellog.Logger
}

var _ zerolog.LevelWriter = (*OTelWriter)(nil)

// NewOTelWriter starts a batching OTLP log exporter and installs it as the
// global logger provider.
func NewOTelWriter(ctx context.Context, config OTelConfig) (*OTelWriter, error) {
	if !config.Enabled {
		return nil, ErrOTelLoggingDisabled
	}

	if config.Endpoint == "" {
		return nil, ErrOTelEndpointRequired
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(config.Endpoint)}

	if config.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}

	creds, ok, err := config.transportCredentials()
	if err != nil {
		return nil, err
	}

	if ok {
		opts = append(opts, otlploggrpc.WithTLSCredentials(creds))
	}

	if len(config.Headers) > 0 {
		opts = append(opts, otlploggrpc.WithHeaders(config.Headers))
	}

	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	res, err := newResource(ctx, config.serviceName(""))
	if err != nil {
		return nil, err
	}

	batchTimeout := time.Duration(config.BatchTimeout)
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter, sdklog.WithExportTimeout(batchTimeout))),
	)

	logProviderMu.Lock()
	logProvider = provider
	logProviderMu.Unlock()

	global.SetLoggerProvider(provider)

	return &OTelWriter{
		ctx:      ctx,
		provider: provider,
		loggers:  make(map[string]otellog.Logger),
	}, nil
}

// Write emits a line whose level is read from its "level" field.
func (w *OTelWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel emits one zerolog JSON line. Lines that are not JSON are
// dropped; export failures never fail the local write.
func (w *OTelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	var entry map[string]interface{}
	if err := json.Unmarshal(p, &entry); err != nil {
		return len(p), nil
	}

	var record otellog.Record

	record.SetObservedTimestamp(time.Now())

	if ts, ok := popString(entry, zerolog.TimestampFieldName); ok {
		if parsed, err := time.Parse(zerolog.TimeFieldFormat, ts); err == nil {
			record.SetTimestamp(parsed)
		}
	}

	if text, ok := popString(entry, zerolog.LevelFieldName); ok {
		if level == zerolog.NoLevel {
			if parsed, err := zerolog.ParseLevel(text); err == nil {
				level = parsed
			}
		}

		record.SetSeverityText(text)
	}

	record.SetSeverity(severityOf(level))

	if msg, ok := popString(entry, zerolog.MessageFieldName); ok {
		record.SetBody(otellog.StringValue(msg))
	}

	scope := defaultLoggerScope
	if component, ok := popString(entry, componentField); ok && component != "" {
		scope = component
	}

	for key, value := range entry {
		record.AddAttributes(attributeOf(key, value))
	}

	w.scopeLogger(scope).Emit(w.ctx, record)

	return len(p), nil
}

func (w *OTelWriter) scopeLogger(scope string) otellog.Logger {
	w.mu.Lock()
	defer w.mu.Unlock()

	l, ok := w.loggers[scope]
	if !ok {
		l = w.provider.Logger(scope)
		w.loggers[scope] = l
	}

	return l
}

func popString(entry map[string]interface{}, key string) (string, bool) {
	s, ok := entry[key].(string)
	if ok {
		delete(entry, key)
	}

	return s, ok
}

func severityOf(level zerolog.Level) otellog.Severity {
	switch level {
	case zerolog.TraceLevel:
		return otellog.SeverityTrace
	case zerolog.DebugLevel:
		return otellog.SeverityDebug
	case zerolog.WarnLevel:
		return otellog.SeverityWarn
	case zerolog.ErrorLevel:
		return otellog.SeverityError
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityInfo
	}
}

// attributeOf keeps JSON scalars typed. Objects and arrays are re-encoded
// as strings.
func attributeOf(key string, value interface{}) otellog.KeyValue {
	switch v := value.(type) {
	case string:
		return otellog.String(key, truncate(v))
	case bool:
		return otellog.Bool(key, v)
	case float64:
		return otellog.Float64(key, v)
	case nil:
		return otellog.String(key, "null")
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return otellog.String(key, truncate(fmt.Sprint(v)))
		}

		return otellog.String(key, truncate(string(encoded)))
	}
}

func truncate(value string) string {
	if len(value) <= maxAttributeValueLength {
		return value
	}

	cut := value[:maxAttributeValueLength-3]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}

	return cut + "..."
}

// Shutdown flushes and stops the OTel log, metric and trace pipelines, if
// any were started.
func Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logProviderMu.Lock()
	provider := logProvider
	logProvider = nil
	logProviderMu.Unlock()

	var errs []error

	if provider != nil {
		errs = append(errs, provider.Shutdown(ctx))
	}

	errs = append(errs, shutdownMeterProvider(ctx), shutdownTracerProvider(ctx))

	return errors.Join(errs...)
}
