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
	"github.com/ajroetker/go-qconv/hwy"
	"github.com/ajroetker/go-qconv/hwy/contrib/dot"
)

// convolve1x1 runs the 1x1 fast path: every output pixel is the dot product
// of one input pixel with each output-channel filter.
//
// The input-offset term Σ filter[oc][c] * inputOffset does not depend on
// the pixel, so it is computed once per output channel. Output channels are
// processed in blocks of 8 so those sums stay on the stack.
//
// When the channel count is not a multiple of 8, or padChannels is set,
// both operands are copied into scratch with zero-filled channel lanes.
func (pr *problem) convolve1x1(a *arena, ip dot.InnerProduct, padChannels bool) {
	ch := pr.in.Channels
	outCh := pr.out.Channels
	r8 := hwy.RoundUp(ch, oneByOneLanes)

	input, filter, stride := pr.input, pr.filterData, ch
	switch {
	case ch != r8 || padChannels:
		f := a.int8s(r8*outCh, stageAlign)
		padRows(f, pr.filterData, outCh, ch, r8)
		x := a.int8s(pr.in.Pixels()*r8, stageAlign)
		padRows(x, pr.input, pr.in.Pixels(), ch, r8)
		input, filter, stride = x, f, r8
	case !hwy.SliceAligned(pr.filterData, stageAlign):
		f := a.int8s(ch*outCh, stageAlign)
		copy(f, pr.filterData[:ch*outCh])
		filter = f
	}

	var sums, accs [oneByOneLanes]int32
	for oc0 := 0; oc0 < outCh; oc0 += oneByOneLanes {
		n := min(oneByOneLanes, outCh-oc0)
		for j := range n {
			row := (oc0 + j) * stride
			sums[j] = dot.SumInt8(filter[row:row+stride])*pr.p.InputOffset + pr.biasAt(oc0+j)
		}

		for oy := range pr.out.Height {
			for ox := range pr.out.Width {
				px := (oy*pr.in.Width + ox) * stride
				x := input[px : px+stride]
				dst := (oy*pr.out.Width+ox)*outCh + oc0
				dot.DotInt8Rows(ip, x, filter[oc0*stride:], stride, accs[:n])
				for j := range n {
					pr.store(dst+j, accs[j]+sums[j], oc0+j)
				}
			}
		}
	}
}
