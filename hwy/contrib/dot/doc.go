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

// Package dot provides signed 8-bit inner products with 32-bit accumulation.
//
// This package is the innermost building block of the quantized convolution
// kernels: every output value is one or more int8 dot products between an
// input window and a filter row.
//
// # Strategies
//
// Two accumulation strategies implement the InnerProduct interface:
//   - Portable: a 4-way unrolled scalar loop, correct for any length.
//   - Lanes: processes blocks of 16 bytes into 8 int32 lanes, the same
//     pairwise multiply-add shape as PMADDWD / SDOT, then reduces the lanes
//     and finishes the tail with scalar code.
//
// Both strategies accumulate with wrapping int32 arithmetic. Because
// two's-complement addition is associative and commutative, they return
// bit-identical results for every input.
//
// Default returns the strategy chosen for the current CPU level. Both
// strategies are pure Go; the choice follows the lane layout of the level,
// not a different instruction set. Setting HWY_NO_SIMD forces Portable.
//
// # Example Usage
//
//	import "github.com/ajroetker/go-qconv/hwy/contrib/dot"
//
//	a := []int8{1, 2, 3}
//	b := []int8{4, 5, 6}
//	result := dot.Default().DotInt8(a, b) // 32
//
//	// Inner products of one vector against consecutive rows of a matrix.
//	rows := []int8{1, 0, 0, 0, 1, 0}
//	sums := make([]int32, 2)
//	dot.DotInt8Rows(dot.Default(), a, rows, 3, sums) // [1, 2]
package dot
