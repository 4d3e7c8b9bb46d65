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

package web

import "time"

const (
	defaultListenAddr       = ":8080"
	defaultWriteTimeout     = 5 * time.Second
	defaultSelectsPerSecond = 2
	defaultSelectBurst      = 4
)

// Config configures the browser surface.
type Config struct {
	ListenAddr string `json:"listen_addr"`
	// SelectsPerSecond and SelectBurst throttle device selections per
	// browser connection.
	SelectsPerSecond float64 `json:"selects_per_second"`
	SelectBurst      int     `json:"select_burst"`
}

// WithDefaults returns a copy with empty fields filled in.
func (c Config) WithDefaults() Config {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}

	if c.SelectsPerSecond <= 0 {
		c.SelectsPerSecond = defaultSelectsPerSecond
	}

	if c.SelectBurst <= 0 {
		c.SelectBurst = defaultSelectBurst
	}

	return c
}
