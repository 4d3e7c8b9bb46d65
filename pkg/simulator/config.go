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

// Package simulator posts random telemetry for a fixed set of devices so the
// dashboard has live data to show.
package simulator

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
)

const (
	defaultTargetURL      = "http://localhost:8080/api/telemetry"
	defaultDevicesFile    = "devices.json"
	defaultInterval       = 10 * time.Second
	defaultRequestTimeout = 5 * time.Second
)

var (
	errInvalidTargetURL = errors.New("target_url must be an absolute http(s) URL")
	errInvalidInterval  = errors.New("interval must not be negative")
	errNoDevices        = errors.New("no valid devices found")
	errUnexpectedStatus = errors.New("telemetry rejected")
)

// Config is the simulator's configuration file.
type Config struct {
	TargetURL      string          `json:"target_url"`
	DevicesFile    string          `json:"devices_file"`
	Interval       models.Duration `json:"interval"`
	RequestTimeout models.Duration `json:"request_timeout"`
	Logging        *logger.Config  `json:"logging,omitempty"`
}

// Validate implements config.Validator and fills in defaults.
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		c.TargetURL = defaultTargetURL
	}

	c.TargetURL = strings.TrimRight(c.TargetURL, "/")

	u, err := url.Parse(c.TargetURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidTargetURL, c.TargetURL)
	}

	if c.DevicesFile == "" {
		c.DevicesFile = defaultDevicesFile
	}

	if c.Interval < 0 {
		return errInvalidInterval
	}

	if c.Interval == 0 {
		c.Interval = models.Duration(defaultInterval)
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = models.Duration(defaultRequestTimeout)
	}

	return nil
}
