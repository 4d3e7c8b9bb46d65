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
	"os"
	"strings"
	"time"

	"github.com/carverauto/telemetry-dashboard/pkg/models"
)

const (
	defaultServiceName  = "telemetry-dashboard"
	defaultBatchTimeout = 5 * time.Second
)

// DefaultConfig reads LOG_LEVEL, DEBUG, LOG_OUTPUT and LOG_TIME_FORMAT.
func DefaultConfig() *Config {
	return &Config{
		Level:      envString("LOG_LEVEL", "info"),
		Debug:      envBool("DEBUG", false),
		Output:     envString("LOG_OUTPUT", "stdout"),
		TimeFormat: os.Getenv("LOG_TIME_FORMAT"),
		OTel:       DefaultOTelConfig(),
	}
}

// DefaultOTelConfig reads OTEL_LOGS_ENABLED, OTEL_SERVICE_NAME and the
// OTEL_EXPORTER_OTLP_LOGS_* variables.
func DefaultOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      envBool("OTEL_LOGS_ENABLED", false),
		Endpoint:     os.Getenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT"),
		Headers:      parseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_LOGS_HEADERS")),
		ServiceName:  envString("OTEL_SERVICE_NAME", defaultServiceName),
		BatchTimeout: models.Duration(envDuration("OTEL_EXPORTER_OTLP_LOGS_TIMEOUT", defaultBatchTimeout)),
		Insecure:     envBool("OTEL_EXPORTER_OTLP_LOGS_INSECURE", false),
	}
}

// parseHeaders reads "k1=v1,k2=v2". Pairs without "=" are ignored.
func parseHeaders(raw string) map[string]string {
	headers := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return headers
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return d
}
