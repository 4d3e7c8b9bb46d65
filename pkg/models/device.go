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

// DeviceRecord is a single entry of the GET /api/devices response.
type DeviceRecord struct {
	DeviceUUID string `json:"device_uuid"`
	Alias      string `json:"alias"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// Device is a selectable device. APIKey is the credential sent with
// telemetry requests for this device.
type Device struct {
	DeviceID  string `json:"device_uuid"`
	Alias     string `json:"alias"`
	APIKey    string `json:"-"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Aliases returns the selection keys of devices in order.
func Aliases(devices []Device) []string {
	aliases := make([]string, 0, len(devices))

	for i := range devices {
		aliases = append(aliases, devices[i].Alias)
	}

	return aliases
}
