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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/carverauto/telemetry-dashboard/pkg/models"
)

// FetchLatest fetches the latest sample for device. It returns (nil, nil)
// when device is nil or when the response lacks numeric coordinates, so a
// single malformed sample never interrupts polling.
func (c *Client) FetchLatest(ctx context.Context, device *models.Device) (*models.TelemetrySample, error) {
	if device == nil {
		return nil, nil
	}

	reqURL := c.baseURL + latestTelemetryPath + url.PathEscape(device.DeviceID)

	c.logger.Debug().Str("url", reqURL).Str("alias", device.Alias).Msg("Fetching telemetry")

	res, err := c.get(ctx, "GET "+latestTelemetryPath+"{device_uuid}", reqURL,
		map[string]string{APIKeyHeader: device.APIKey})
	if err != nil {
		return nil, &TelemetryFetchError{FetchError{StatusCode: res.status, Err: err}}
	}

	if !res.ok() {
		c.logger.Error().
			Str("alias", device.Alias).
			Int("status", res.status).
			Str("body", string(res.body)).
			Msg("Telemetry fetch failed")

		return nil, &TelemetryFetchError{FetchError{
			StatusCode: res.status,
			Body:       string(res.body),
			Err:        fmt.Errorf("%w: %d", errUnexpectedStatus, res.status),
		}}
	}

	var payload models.TelemetryResponse

	if err := json.Unmarshal(res.body, &payload); err != nil {
		return nil, &TelemetryFetchError{FetchError{
			StatusCode: res.status,
			Body:       string(res.body),
			Err:        fmt.Errorf("%w: %w", errInvalidJSON, err),
		}}
	}

	x, xok := jsonNumber(payload.XCoord)
	y, yok := jsonNumber(payload.YCoord)

	if !xok || !yok {
		c.logger.Warn().
			Str("alias", device.Alias).
			RawJSON("x_coord", rawOrNull(payload.XCoord)).
			RawJSON("y_coord", rawOrNull(payload.YCoord)).
			Msg("Telemetry response missing numeric x_coord/y_coord")

		return nil, nil
	}

	sample := &models.TelemetrySample{
		Alias:     payload.Alias,
		X:         x,
		Y:         y,
		Timestamp: payload.DeviceTime,
	}

	if sample.Alias == "" {
		sample.Alias = device.Alias
	}

	if sample.Timestamp == "" {
		sample.Timestamp = payload.SystemTimeUTC
	}

	return sample, nil
}

// jsonNumber accepts only a JSON number literal.
func jsonNumber(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, false
	}

	if c := trimmed[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}

	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return 0, false
	}

	return v, true
}

func rawOrNull(raw json.RawMessage) []byte {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []byte("null")
	}

	return raw
}
