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

package hwy

import "unsafe"

// RoundUp rounds n up to the next multiple of m. m must be a power of two.
//
// Example:
//
//	hwy.RoundUp(20, 8)  // 24
//	hwy.RoundUp(16, 16) // 16
func RoundUp(n, m int) int {
	return (n + m - 1) &^ (m - 1)
}

// IsMultiple returns true if n is a multiple of m. m must be a power of two.
func IsMultiple(n, m int) bool {
	return n&(m-1) == 0
}

// AlignPad returns how many bytes must be skipped from the start of buf so
// that the next byte sits on an align-byte boundary. align must be a power
// of two. An empty buffer needs no padding.
func AlignPad(buf []byte, align int) int {
	if len(buf) == 0 {
		return 0
	}
	addr := uintptr(unsafe.Pointer(&buf[0]))
	return int((uintptr(align) - addr&uintptr(align-1)) & uintptr(align-1))
}

// SliceAligned reports whether the first element of s sits on an
// align-byte boundary.
func SliceAligned[T Lanes](s []T, align int) bool {
	if len(s) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&s[0]))&uintptr(align-1) == 0
}
