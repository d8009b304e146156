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

package conv

import (
	"unsafe"

	"github.com/ajroetker/go-qconv/hwy"
)

// arena hands out aligned, non-overlapping views of a scratch buffer.
// Views are carved front to back; nothing is ever freed individually.
type arena struct {
	buf []byte
	off int
}

// bytes returns the next n bytes, starting on an align-byte boundary.
// It panics if the buffer is exhausted.
func (a *arena) bytes(n, align int) []byte {
	start := a.off + hwy.AlignPad(a.buf[a.off:], align)
	end := start + n
	if end > len(a.buf) {
		panic("conv: scratch arena exhausted")
	}
	a.off = end
	return a.buf[start:end:end]
}

// int8s returns a view of n int8 values aligned to align bytes.
func (a *arena) int8s(n, align int) []int8 {
	b := a.bytes(n, align)
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*int8)(unsafe.Pointer(&b[0])), n)
}

// int32s returns a view of n int32 values aligned to 4 bytes.
func (a *arena) int32s(n int) []int32 {
	b := a.bytes(4*n, 4)
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&b[0])), n)
}

// used returns the number of bytes consumed so far, alignment included.
func (a *arena) used() int {
	return a.off
}
