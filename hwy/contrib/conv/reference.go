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

import "github.com/ajroetker/go-qconv/hwy/contrib/requant"

// ConvolveReference computes the convolution with plain nested loops:
//
//	acc = bias[oc] + Σ (input[iy][ix][c] + inputOffset) * filter[oc][fy][fx][c]
//
// over every tap (fy, fx, c) whose input position lies inside the tensor,
// followed by requantization, the output offset and the activation clamp.
// All accumulation wraps in int32.
//
// It is the oracle the kernels are checked against.
func ConvolveReference(in Dims, input []int8, filter Dims, filterData []int8, bias []int32,
	out Dims, output []int8, p Params, q Quant) error {
	if err := validateCall(in, filter, out, p, input, filterData, bias, output, q); err != nil {
		return err
	}
	ch := in.Channels
	for oy := range out.Height {
		for ox := range out.Width {
			for oc := range out.Channels {
				var acc int32
				if bias != nil {
					acc = bias[oc]
				}
				for fy := range filter.Height {
					iy := oy*p.StrideH - p.PadH + fy
					if iy < 0 || iy >= in.Height {
						continue
					}
					for fx := range filter.Width {
						ix := ox*p.StrideW - p.PadW + fx
						if ix < 0 || ix >= in.Width {
							continue
						}
						for c := range ch {
							x := int32(input[(iy*in.Width+ix)*ch+c]) + p.InputOffset
							w := int32(filterData[((oc*filter.Height+fy)*filter.Width+fx)*ch+c])
							acc += x * w
						}
					}
				}
				output[(oy*out.Width+ox)*out.Channels+oc] = requant.Output(acc, q.Mult[oc], q.Shift[oc],
					p.OutputOffset, p.ActivationMin, p.ActivationMax)
			}
		}
	}
	return nil
}
