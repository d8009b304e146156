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

// convolveWindowed runs the unpadded fast path. Without padding every
// filter row maps onto filterWidth*channels contiguous input values, so
// each row is one flat dot product.
//
// In pre-padding mode a padded shape is handled by first writing a copy of
// the input framed with -inputOffset, which turns padded taps into zero
// contributions once the offset term is added back.
func (pr *problem) convolveWindowed(a *arena, ip dot.InnerProduct, prePad bool) {
	ch := pr.in.Channels
	outCh := pr.out.Channels
	fw, fh := pr.filter.Width, pr.filter.Height
	rowLen := fw * ch
	rowStride := hwy.RoundUp(rowLen, windowLanes)

	filter := pr.filterData
	switch {
	case rowStride != rowLen:
		f := a.int8s(outCh*fh*rowStride, stageAlign)
		padRows(f, pr.filterData, outCh*fh, rowLen, rowStride)
		filter = f
	case !hwy.SliceAligned(pr.filterData, stageAlign):
		f := a.int8s(outCh*fh*rowLen, stageAlign)
		copy(f, pr.filterData[:outCh*fh*rowLen])
		filter = f
	}

	// Input-offset term over the full filter volume, plus bias.
	offsetAcc := a.int32s(outCh)
	volume := fh * rowLen
	for oc := range outCh {
		sum := dot.SumInt8(pr.filterData[oc*volume : (oc+1)*volume])
		offsetAcc[oc] = sum*pr.p.InputOffset + pr.biasAt(oc)
	}

	input, in := pr.input, pr.in
	if prePad && pr.p.Padded() {
		in = Dims{Width: pr.in.Width + 2*pr.p.PadW, Height: pr.in.Height + 2*pr.p.PadH, Channels: ch}
		x := a.int8s(in.Size(), stageAlign)
		padSpatial(x, pr.input, pr.in, pr.p.PadW, pr.p.PadH, int8(-pr.p.InputOffset))
		input = x
	}
	inRow := in.Width * ch

	for oy := range pr.out.Height {
		iy := oy * pr.p.StrideH
		for ox := range pr.out.Width {
			base := iy*inRow + ox*pr.p.StrideW*ch
			dst := (oy*pr.out.Width + ox) * outCh
			for oc := range outCh {
				var acc int32
				f := filter[oc*fh*rowStride:]
				for fy := range fh {
					x := input[base+fy*inRow : base+fy*inRow+rowLen]
					acc += ip.DotInt8(x, f[fy*rowStride:fy*rowStride+rowLen])
				}
				pr.store(dst+oc, acc+offsetAcc[oc], oc)
			}
		}
	}
}
