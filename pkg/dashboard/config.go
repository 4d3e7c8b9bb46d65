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

// Package dashboard wires the device directory, the polling controller and
// the selection surface into the running dashboard.
package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
	"github.com/carverauto/telemetry-dashboard/pkg/natsink"
	"github.com/carverauto/telemetry-dashboard/pkg/web"
)

// Surface kinds.
const (
	SurfaceTUI = "tui"
	SurfaceLog = "log"
	SurfaceWeb = "web"
)

const defaultRequestTimeout = 10 * time.Second

var (
	errMissingBaseURL  = errors.New("base_url is required")
	errInvalidBaseURL  = errors.New("base_url must be an absolute http(s) URL")
	errMissingInterval = errors.New("poll_interval must be positive")
	errInvalidTimeout  = errors.New("request_timeout must not be negative")
	errUnknownSurface  = errors.New("unknown surface")
)

// Config is the dashboard's configuration file.
type Config struct {
	BaseURL           string             `json:"base_url"`
	PollInterval      models.Duration    `json:"poll_interval"`
	RequestTimeout    models.Duration    `json:"request_timeout"`
	Surface           string             `json:"surface"`
	InitialAlias      string             `json:"initial_alias"`
	DisableAutoSelect bool               `json:"disable_auto_select"`
	Web               *web.Config        `json:"web,omitempty"`
	NATS              *natsink.Config    `json:"nats,omitempty"`
	Logging           *logger.Config     `json:"logging,omitempty"`
	Metrics           *logger.OTelConfig `json:"metrics,omitempty"`
	Tracing           *logger.OTelConfig `json:"tracing,omitempty"`
}

// Validate implements config.Validator. It fills in defaults for optional
// fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errMissingBaseURL
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidBaseURL, c.BaseURL)
	}

	if c.PollInterval <= 0 {
		return errMissingInterval
	}

	switch {
	case c.RequestTimeout < 0:
		return errInvalidTimeout
	case c.RequestTimeout == 0:
		c.RequestTimeout = models.Duration(defaultRequestTimeout)
	}

	switch c.Surface {
	case "":
		c.Surface = SurfaceTUI
	case SurfaceTUI, SurfaceLog, SurfaceWeb:
	default:
		return fmt.Errorf("%w: %q", errUnknownSurface, c.Surface)
	}

	if c.Surface == SurfaceWeb && c.Web == nil {
		c.Web = &web.Config{}
	}

	if c.Web != nil {
		*c.Web = c.Web.WithDefaults()
	}

	if c.NATS != nil && c.NATS.URL != "" {
		if err := c.NATS.Validate(); err != nil {
			return fmt.Errorf("nats: %w", err)
		}
	}

	return nil
}

// NATSEnabled reports whether samples are also published to NATS.
func (c *Config) NATSEnabled() bool {
	return c.NATS != nil && c.NATS.URL != ""
}
