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

// padRows copies rows of n values from src into rows of stride values in
// dst, zero-filling the stride-n trailing lanes of each row.
//
// Used for channel padding of 1x1 operands and for padding windowed filter
// rows. Zero lanes contribute nothing to any dot product.
func padRows(dst, src []int8, rows, n, stride int) {
	if len(src) < rows*n {
		panic("conv: stage src slice too short")
	}
	if len(dst) < rows*stride {
		panic("conv: stage dst slice too short")
	}
	for r := range rows {
		d := dst[r*stride : (r+1)*stride]
		copy(d, src[r*n:(r+1)*n])
		clear(d[n:])
	}
}

// padSpatial writes a copy of the in-shaped tensor src into dst, framed by
// padW columns and padH rows of fill on each side. dst is laid out as a
// (Width+2*padW) x (Height+2*padH) x Channels tensor.
func padSpatial(dst, src []int8, in Dims, padW, padH int, fill int8) {
	ch := in.Channels
	outW := in.Width + 2*padW
	outH := in.Height + 2*padH
	if len(dst) < outW*outH*ch {
		panic("conv: stage dst slice too short")
	}
	if len(src) < in.Size() {
		panic("conv: stage src slice too short")
	}

	dst = dst[:outW*outH*ch]
	rowBytes := outW * ch

	// Top and bottom border rows.
	fillInt8(dst[:padH*rowBytes], fill)
	fillInt8(dst[(padH+in.Height)*rowBytes:], fill)

	left := padW * ch
	inRow := in.Width * ch
	for y := range in.Height {
		row := dst[(padH+y)*rowBytes : (padH+y+1)*rowBytes]
		fillInt8(row[:left], fill)
		copy(row[left:left+inRow], src[y*inRow:(y+1)*inRow])
		fillInt8(row[left+inRow:], fill)
	}
}

func fillInt8(dst []int8, v int8) {
	if v == 0 {
		clear(dst)
		return
	}
	for i := range dst {
		dst[i] = v
	}
}
