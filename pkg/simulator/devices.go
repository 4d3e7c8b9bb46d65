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

package simulator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carverauto/telemetry-dashboard/pkg/config"
	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
)

// Device is a simulated device.
type Device struct {
	Alias string
	UUID  string
}

// LoadDevices reads a JSON array of {alias, device_uuid} objects. Entries
// missing a field or with a malformed UUID are skipped.
func LoadDevices(ctx context.Context, path string, log logger.Logger) ([]Device, error) {
	log.Info().Str("path", path).Msg("Loading devices")

	var records []models.DeviceRecord

	loader := &config.FileConfigLoader{}
	if err := loader.Load(ctx, path, &records); err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(records))

	for i, record := range records {
		if record.Alias == "" || record.DeviceUUID == "" {
			log.Warn().Int("index", i).Msg("Skipping device entry missing alias or device_uuid")

			continue
		}

		if _, err := uuid.Parse(record.DeviceUUID); err != nil {
			log.Warn().
				Err(err).
				Int("index", i).
				Str("alias", record.Alias).
				Msg("Skipping device entry with invalid device_uuid")

			continue
		}

		devices = append(devices, Device{Alias: record.Alias, UUID: record.DeviceUUID})
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("%w in %s", errNoDevices, path)
	}

	log.Info().Int("count", len(devices)).Msg("Loaded devices")

	return devices, nil
}
