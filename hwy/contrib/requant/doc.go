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

// Package requant implements fixed-point requantization of 32-bit
// accumulators back to signed 8-bit outputs.
//
// A per-channel scale is expressed as a Q31 multiplier in [0, MaxInt32]
// and a power-of-two exponent in [ShiftMin, ShiftMax]. Positive exponents
// are applied as a left shift before the multiply, negative ones as a
// rounding right shift after it:
//
//	x      = acc << max(shift, 0)                     (wrapping int32)
//	high   = floor((x*mult + 2^30) / 2^31)            (saturating)
//	result = high / 2^max(-shift, 0)                  (round half away from zero)
//
// This is the gemmlowp / TensorFlow Lite Micro convention, which the
// quantized convolution kernels must reproduce bit for bit.
//
// # Example Usage
//
//	import "github.com/ajroetker/go-qconv/hwy/contrib/requant"
//
//	// Scale by ~0.997 * 2^-10, add the output zero point, clamp to int8.
//	out := requant.Output(acc, 0x7f67f4f8, -10, 3, -128, 127)
package requant
