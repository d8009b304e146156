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

import "github.com/ajroetker/go-qconv/hwy/contrib/dot"

// convolveFallback handles any validated geometry without scratch. For
// each filter row it clips the horizontal tap range to the input and
// accumulates the in-bounds run as one dot product plus its offset term.
func (pr *problem) convolveFallback(ip dot.InnerProduct) {
	ch := pr.in.Channels
	outCh := pr.out.Channels
	fw, fh := pr.filter.Width, pr.filter.Height
	inRow := pr.in.Width * ch
	off := pr.p.InputOffset

	for oy := range pr.out.Height {
		iy0 := oy*pr.p.StrideH - pr.p.PadH
		fy0 := max(0, -iy0)
		fy1 := min(fh, pr.in.Height-iy0)
		for ox := range pr.out.Width {
			ix0 := ox*pr.p.StrideW - pr.p.PadW
			fx0 := max(0, -ix0)
			fx1 := min(fw, pr.in.Width-ix0)
			dst := (oy*pr.out.Width + ox) * outCh
			if fx0 >= fx1 || fy0 >= fy1 {
				// Window lies entirely in the padding.
				for oc := range outCh {
					pr.store(dst+oc, pr.biasAt(oc), oc)
				}
				continue
			}
			runLen := (fx1 - fx0) * ch
			for oc := range outCh {
				acc := pr.biasAt(oc)
				for fy := fy0; fy < fy1; fy++ {
					xi := (iy0+fy)*inRow + (ix0+fx0)*ch
					fi := ((oc*fh+fy)*fw + fx0) * ch
					f := pr.filterData[fi : fi+runLen]
					acc += ip.DotInt8(pr.input[xi:xi+runLen], f) + off*dot.SumInt8(f)
				}
				pr.store(dst+oc, acc, oc)
			}
		}
	}
}

// ConvolveFallback computes the convolution with the generic kernel. It
// accepts every geometry Validate accepts and needs no scratch memory.
func ConvolveFallback(in Dims, input []int8, filter Dims, filterData []int8, bias []int32,
	out Dims, output []int8, p Params, q Quant) error {
	if err := validateCall(in, filter, out, p, input, filterData, bias, output, q); err != nil {
		return err
	}
	pr := problem{in: in, filter: filter, out: out, p: p, input: input, filterData: filterData,
		bias: bias, output: output, q: q}
	pr.convolveFallback(dot.Default())
	return nil
}
