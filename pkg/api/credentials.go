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

import "github.com/carverauto/telemetry-dashboard/pkg/models"

// CredentialFunc derives the API key used for a device's telemetry requests.
type CredentialFunc func(record models.DeviceRecord) string

// AliasCredential reuses the alias as the API key. This is the demo scheme
// the device API currently accepts; it is not a security mechanism.
func AliasCredential(record models.DeviceRecord) string {
	return record.Alias
}
