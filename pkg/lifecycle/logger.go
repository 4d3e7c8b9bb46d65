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

// Package lifecycle holds the process plumbing shared by the dashboard and
// simulator binaries.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
)

// CreateLogger creates a logger from config. A nil config is read from the
// environment.
func CreateLogger(ctx context.Context, config *logger.Config) (logger.Logger, error) {
	zl, err := logger.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger.NewZerologLogger(zl), nil
}

// CreateComponentLogger creates a logger that tags every line with
// component.
func CreateComponentLogger(ctx context.Context, component string, config *logger.Config) (logger.Logger, error) {
	log, err := CreateLogger(ctx, config)
	if err != nil {
		return nil, err
	}

	return logger.NewZerologLogger(log.WithComponent(component)), nil
}

// ShutdownLogger flushes pending OTel exports.
func ShutdownLogger() error {
	return logger.Shutdown()
}
