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

package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carverauto/telemetry-dashboard/pkg/models"
)

// ListDevices fetches GET {base}/api/devices. Records without a device_uuid
// or alias are skipped. Every call is a fresh request.
func (c *Client) ListDevices(ctx context.Context) ([]models.Device, error) {
	reqURL := c.baseURL + devicesPath

	c.logger.Debug().Str("url", reqURL).Msg("Fetching devices")

	res, err := c.get(ctx, "GET "+devicesPath, reqURL, nil)
	if err != nil {
		return nil, &DirectoryFetchError{FetchError{StatusCode: res.status, Err: err}}
	}

	if !res.ok() {
		c.logger.Error().
			Int("status", res.status).
			Str("body", string(res.body)).
			Msg("Device fetch failed")

		return nil, &DirectoryFetchError{FetchError{
			StatusCode: res.status,
			Body:       string(res.body),
			Err:        fmt.Errorf("%w: %d", errUnexpectedStatus, res.status),
		}}
	}

	var records []models.DeviceRecord

	if err := json.Unmarshal(res.body, &records); err != nil {
		return nil, &DirectoryFetchError{FetchError{
			StatusCode: res.status,
			Body:       string(res.body),
			Err:        fmt.Errorf("%w: %w", errInvalidJSON, err),
		}}
	}

	devices := make([]models.Device, 0, len(records))

	for _, record := range records {
		if record.DeviceUUID == "" || record.Alias == "" {
			c.logger.Warn().
				Str("device_uuid", record.DeviceUUID).
				Str("alias", record.Alias).
				Msg("Skipping incomplete device record")

			continue
		}

		devices = append(devices, models.Device{
			DeviceID:  record.DeviceUUID,
			Alias:     record.Alias,
			APIKey:    c.credential(record),
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		})
	}

	c.logger.Info().Int("count", len(devices)).Msg("Fetched devices")

	return devices, nil
}

// FindDeviceByAlias returns the first device with the given alias, or nil.
func FindDeviceByAlias(devices []models.Device, alias string) *models.Device {
	for i := range devices {
		if devices[i].Alias == alias {
			return &devices[i]
		}
	}

	return nil
}
