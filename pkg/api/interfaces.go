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

//go:generate mockgen -destination=mock_api.go -package=api github.com/carverauto/telemetry-dashboard/pkg/api DeviceLister,TelemetryFetcher,HTTPDoer

package api

import (
	"context"
	"net/http"

	"github.com/carverauto/telemetry-dashboard/pkg/models"
)

// DeviceLister fetches the set of known devices.
type DeviceLister interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
}

// TelemetryFetcher fetches the latest sample for one device. A nil sample
// with a nil error means there was nothing usable to render.
type TelemetryFetcher interface {
	FetchLatest(ctx context.Context, device *models.Device) (*models.TelemetrySample, error)
}

// HTTPDoer is the subset of *http.Client the client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
