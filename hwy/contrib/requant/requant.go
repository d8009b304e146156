// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package requant

import "math"

const (
	// ShiftMin is the smallest supported exponent (a right shift by 31).
	ShiftMin = -31

	// ShiftMax is the largest supported exponent (a left shift by 30).
	ShiftMax = 30
)

// ValidShift reports whether shift lies in [ShiftMin, ShiftMax].
func ValidShift(shift int32) bool {
	return shift >= ShiftMin && shift <= ShiftMax
}

// ValidMultiplier reports whether mult is a non-negative Q31 multiplier.
func ValidMultiplier(mult int32) bool {
	return mult >= 0
}

// SaturatingRoundingDoublingHighMul returns the high 32 bits of 2*a*b,
// rounded to nearest with ties toward positive infinity.
//
// The only overflowing input, MinInt32 * MinInt32, saturates to MaxInt32.
func SaturatingRoundingDoublingHighMul(a, b int32) int32 {
	if a == b && a == math.MinInt32 {
		return math.MaxInt32
	}
	ab := int64(a) * int64(b)
	nudge := int64(1 << 30)
	if ab < 0 {
		nudge = 1 - (1 << 30)
	}
	// Go integer division truncates toward zero, which together with the
	// sign-dependent nudge gives floor((ab + 2^30) / 2^31).
	return int32((ab + nudge) / (1 << 31))
}

// RoundingDivideByPOT divides x by 2^exponent, rounding half away from zero.
// exponent must be in [0, 31].
func RoundingDivideByPOT(x int32, exponent int) int32 {
	// int64 keeps the mask valid for exponent 31.
	mask := int64(1)<<exponent - 1
	remainder := int64(x) & mask
	threshold := mask >> 1
	if x < 0 {
		threshold++
	}
	result := x >> exponent
	if remainder > threshold {
		result++
	}
	return result
}

// MultiplyByQuantizedMultiplier scales acc by mult * 2^shift, where mult
// is a Q31 fraction.
func MultiplyByQuantizedMultiplier(acc, mult, shift int32) int32 {
	left := max(shift, 0)
	right := max(-shift, 0)
	return RoundingDivideByPOT(SaturatingRoundingDoublingHighMul(acc<<left, mult), int(right))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int32) int32 {
	return min(max(v, lo), hi)
}

// Output requantizes acc, adds the output zero point and clamps the result
// to the activation range. actMin and actMax must lie within int8 range.
func Output(acc, mult, shift, outOffset, actMin, actMax int32) int8 {
	v := MultiplyByQuantizedMultiplier(acc, mult, shift)
	v += outOffset
	return int8(Clamp(v, actMin, actMax))
}

// Channel holds the requantization scale of one output channel.
type Channel struct {
	Mult  int32
	Shift int32
}

// Apply is MultiplyByQuantizedMultiplier with the channel's scale.
func (c Channel) Apply(acc int32) int32 {
	return MultiplyByQuantizedMultiplier(acc, c.Mult, c.Shift)
}

// Valid reports whether both the multiplier and the shift are in range.
func (c Channel) Valid() bool {
	return ValidMultiplier(c.Mult) && ValidShift(c.Shift)
}
