// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"math"
	"strconv"
	"strings"
)

// glslFloat renders v as a GLSL ES 1.00 float literal. The language has
// no implicit int to float conversion, so "1" must become "1.0".
func glslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// clampUnit limits v to [0, 1]. NaN becomes 1. The second result
// reports whether v was changed.
func clampUnit(v float32) (float32, bool) {
	switch {
	case math.IsNaN(float64(v)):
		return 1, true
	case v < 0:
		return 0, true
	case v > 1:
		return 1, true
	}
	return v, false
}
