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

package natsink

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	defaultSubject    = "telemetry.samples"
	defaultClientName = "telemetry-dashboard"
)

var (
	errMissingURL     = errors.New("nats url is required")
	errInvalidSubject = errors.New("invalid nats subject")
)

// Config configures the NATS fan-out sink.
type Config struct {
	URL     string `json:"url"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
	// Stream, when set, publishes through JetStream into this stream,
	// creating it if needed.
	Stream string `json:"stream"`
	// Source is the CloudEvent source attribute. Empty uses the client name.
	Source string `json:"source"`
}

// Validate checks the config and fills in defaults.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errMissingURL
	}

	if _, err := url.Parse(c.URL); err != nil {
		return fmt.Errorf("invalid nats url: %w", err)
	}

	if c.Subject == "" {
		c.Subject = defaultSubject
	}

	for _, r := range c.Subject {
		if r == ' ' || r == '*' || r == '>' {
			return fmt.Errorf("%w: %q", errInvalidSubject, c.Subject)
		}
	}

	if c.Name == "" {
		c.Name = defaultClientName
	}

	if c.Source == "" {
		c.Source = c.Name
	}

	return nil
}
