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

package dot

// BlockSize is the number of int8 elements consumed per step by Lanes.
const BlockSize = 16

// numLanes is the number of int32 partial sums kept by Lanes.
const numLanes = 8

// Portable is the scalar inner-product strategy.
type Portable struct{}

// Name implements InnerProduct.
func (Portable) Name() string { return "portable" }

// DotInt8 computes Σ a[i]*b[i] over the common prefix of a and b with
// wrapping int32 accumulation.
func (Portable) DotInt8(a, b []int8) int32 {
	return BaseDotInt8(a, b)
}

// BaseDotInt8 is the portable 4-way unrolled int8 inner product.
//
// If the slices have different lengths, the computation uses the minimum length.
// Returns 0 if either slice is empty.
func BaseDotInt8(a, b []int8) int32 {
	n := min(len(a), len(b))
	a, b = a[:n], b[:n]

	var s0, s1, s2, s3 int32
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += int32(a[i]) * int32(b[i])
		s1 += int32(a[i+1]) * int32(b[i+1])
		s2 += int32(a[i+2]) * int32(b[i+2])
		s3 += int32(a[i+3]) * int32(b[i+3])
	}
	for ; i < n; i++ {
		s0 += int32(a[i]) * int32(b[i])
	}
	return s0 + s1 + s2 + s3
}

// Lanes is the blocked inner-product strategy. Each 16-byte block is
// folded into 8 int32 lanes by adding adjacent products pairwise, the same
// reduction tree a widening multiply-add instruction produces.
type Lanes struct{}

// Name implements InnerProduct.
func (Lanes) Name() string { return "lanes" }

// DotInt8 computes Σ a[i]*b[i] over the common prefix of a and b with
// wrapping int32 accumulation.
func (Lanes) DotInt8(a, b []int8) int32 {
	n := min(len(a), len(b))
	if n < BlockSize {
		return BaseDotInt8(a, b)
	}
	a, b = a[:n], b[:n]

	var acc [numLanes]int32
	i := 0
	for ; i+BlockSize <= n; i += BlockSize {
		va := a[i : i+BlockSize : i+BlockSize]
		vb := b[i : i+BlockSize : i+BlockSize]
		for j := range numLanes {
			acc[j] += int32(va[2*j])*int32(vb[2*j]) + int32(va[2*j+1])*int32(vb[2*j+1])
		}
	}

	// Horizontal reduction
	sum := (acc[0] + acc[4]) + (acc[1] + acc[5]) + (acc[2] + acc[6]) + (acc[3] + acc[7])

	// Tail
	for ; i < n; i++ {
		sum += int32(a[i]) * int32(b[i])
	}
	return sum
}
