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

import "time"

// CloudEvent is a CloudEvents 1.0 envelope in structured JSON mode.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// TelemetryEventData is the payload of a rendered-sample event.
type TelemetryEventData struct {
	DeviceID  string  `json:"device_uuid,omitempty"`
	Alias     string  `json:"alias"`
	X         float64 `json:"x_coord"`
	Y         float64 `json:"y_coord"`
	Timestamp string  `json:"device_time,omitempty"`
}

// TelemetryErrorData is the payload of a poll or startup failure event.
type TelemetryErrorData struct {
	Stage      string `json:"stage"`
	Error      string `json:"error"`
	StatusCode int    `json:"status_code,omitempty"`
}
