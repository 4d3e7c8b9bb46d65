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

package models

import "encoding/json"

// TelemetryResponse is the body of GET /api/telemetry/latest/{device_uuid}.
// Coordinates are kept raw so that non-numeric values can be told apart
// from missing ones.
type TelemetryResponse struct {
	DeviceUUID    string          `json:"device_uuid"`
	Alias         string          `json:"alias"`
	XCoord        json.RawMessage `json:"x_coord"`
	YCoord        json.RawMessage `json:"y_coord"`
	SystemTimeUTC string          `json:"system_time_utc"`
	DeviceTime    string          `json:"device_time"`
}

// TelemetrySample is the latest known position of a device.
type TelemetrySample struct {
	Alias     string  `json:"alias"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp string  `json:"timestamp"`
}

// TelemetryPayload is what a device posts to the ingestion endpoint.
type TelemetryPayload struct {
	XCoord     float64 `json:"x_coord"`
	YCoord     float64 `json:"y_coord"`
	DeviceTime string  `json:"device_time"`
}
