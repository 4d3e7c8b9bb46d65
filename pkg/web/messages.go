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

// Package web serves the dashboard to browsers and pushes frames over a
// WebSocket.
package web

import (
	"encoding/json"
	"time"

	"github.com/carverauto/telemetry-dashboard/pkg/render"
)

// Message types on the WebSocket.
const (
	MessageFrame   = "frame"
	MessageDevices = "devices"
	MessageSelect  = "select"
	MessageError   = "error"
)

// Frame is the latest state of the panel and readouts. Left and Top are
// percentages of the panel.
type Frame struct {
	Left   float64                 `json:"left"`
	Top    float64                 `json:"top"`
	Label  string                  `json:"label"`
	Fields map[render.Field]string `json:"fields"`
}

// Message is sent from the server to browsers.
type Message struct {
	Type      string    `json:"type"`
	Frame     *Frame    `json:"frame,omitempty"`
	Aliases   []string  `json:"aliases,omitempty"`
	Selected  string    `json:"selected,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientMessage is sent from browsers to the server.
type ClientMessage struct {
	Type  string `json:"type"`
	Alias string `json:"alias"`
}

func encode(msg *Message) ([]byte, error) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	return json.Marshal(msg)
}
