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

// Package viewport maps logical device coordinates onto a pixel rectangle.
package viewport

import "math"

const (
	// LogicalMin and LogicalMax bound the coordinate space devices report in.
	LogicalMin = -100.0
	LogicalMax = 100.0

	logicalSpan = LogicalMax - LogicalMin
)

// Rect is the current size of a render surface.
type Rect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are finite and non-negative.
func (r *Rect) Valid() bool {
	if r == nil {
		return false
	}

	return validDimension(r.Width) && validDimension(r.Height)
}

func validDimension(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Position is a pixel offset from the top-left corner of a Rect.
type Position struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// MapToViewport converts a logical (x, y) into a position inside rect.
// -100 maps to the left/bottom edge and 100 to the right/top edge; y grows
// upwards. Values outside the logical range are extrapolated, not clamped.
// An invalid rect yields the zero Position.
func MapToViewport(x, y float64, rect *Rect) Position {
	if !rect.Valid() {
		return Position{}
	}

	nx := (x - LogicalMin) / logicalSpan
	ny := (y - LogicalMin) / logicalSpan

	return Position{
		Left: nx * rect.Width,
		Top:  (1 - ny) * rect.Height,
	}
}
