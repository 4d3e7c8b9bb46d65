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

package poller

import "errors"

var (
	// ErrInvalidInterval is returned for a non-positive poll interval.
	ErrInvalidInterval = errors.New("poll interval must be positive")
	// ErrControllerClosed is returned by SelectDevice after Close.
	ErrControllerClosed = errors.New("controller is closed")

	errNilFetcher   = errors.New("telemetry fetcher is required")
	errNilPresenter = errors.New("presenter is required")
)
