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

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Duration
		wantErr  bool
	}{
		{name: "string duration", input: `"3s"`, expected: Duration(3 * time.Second)},
		{name: "milliseconds", input: `"1500ms"`, expected: Duration(1500 * time.Millisecond)},
		{name: "numeric nanoseconds", input: `1000000000`, expected: Duration(time.Second)},
		{name: "invalid string", input: `"soon"`, wantErr: true},
		{name: "invalid type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration(3 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"3s"`, string(b))
}

func TestAliases(t *testing.T) {
	devices := []Device{{Alias: "d1"}, {Alias: "d2"}}

	assert.Equal(t, []string{"d1", "d2"}, Aliases(devices))
	assert.Empty(t, Aliases(nil))
}
