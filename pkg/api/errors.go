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

// Package api is the HTTP client for the device directory and telemetry endpoints.
package api

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryFetch matches every *DirectoryFetchError.
	ErrDirectoryFetch = errors.New("device directory fetch failed")
	// ErrTelemetryFetch matches every *TelemetryFetchError.
	ErrTelemetryFetch = errors.New("telemetry fetch failed")

	errInvalidBaseURL   = errors.New("invalid base URL")
	errUnexpectedStatus = errors.New("unexpected status code")
	errInvalidJSON      = errors.New("invalid JSON response")
)

// FetchError carries the HTTP status and raw body of a failed request.
// StatusCode is zero when no response was received.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) describe(kind error) string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%v: %v", kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: status %d: %v", kind, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%v: status %d", kind, e.StatusCode)
	}
}

// DirectoryFetchError is returned by ListDevices.
type DirectoryFetchError struct {
	FetchError
}

func (e *DirectoryFetchError) Error() string { return e.describe(ErrDirectoryFetch) }

func (*DirectoryFetchError) Is(target error) bool { return target == ErrDirectoryFetch }

func (e *DirectoryFetchError) Unwrap() error { return e.Err }

// TelemetryFetchError is returned by FetchLatest.
type TelemetryFetchError struct {
	FetchError
}

func (e *TelemetryFetchError) Error() string { return e.describe(ErrTelemetryFetch) }

func (*TelemetryFetchError) Is(target error) bool { return target == ErrTelemetryFetch }

func (e *TelemetryFetchError) Unwrap() error { return e.Err }

// StatusCodeOf returns the HTTP status carried by a fetch error, or 0.
func StatusCodeOf(err error) int {
	var directoryErr *DirectoryFetchError
	if errors.As(err, &directoryErr) {
		return directoryErr.StatusCode
	}

	var telemetryErr *TelemetryFetchError
	if errors.As(err, &telemetryErr) {
		return telemetryErr.StatusCode
	}

	return 0
}
