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

// Package conv implements quantized 2-D convolution over signed 8-bit NHWC
// tensors with per-output-channel requantization.
//
// # Kernel Variants
//
// A convolution is routed to one of three kernels by SelectVariant:
//   - OneByOne: 1x1 filter, no padding, unit stride. Each output pixel is a
//     set of channel dot products against the output-channel filters.
//   - Windowed: no padding, any filter size and stride. Each filter row is
//     accumulated as one flat dot product of filterWidth*channels values.
//   - Fallback: everything else. Taps falling outside the input are skipped,
//     and no scratch memory is used.
//
// All variants are bit-exact against ConvolveReference.
//
// # Scratch Memory
//
// The fast paths stage channel-padded, row-padded or realigned copies of
// their operands in a caller-owned scratch buffer. Its size is a pure
// function of the shapes:
//
//	s, err := conv.Prepare(in, filter, out, params)
//	if err != nil {
//	    return err
//	}
//	scratch := make([]byte, s.ScratchSize())
//	if err := s.RegisterScratch(scratch); err != nil {
//	    return err
//	}
//	err = s.Convolve(input, filterData, bias, output, quant)
//
// A Session is not safe for concurrent use. Independent sessions with
// their own scratch buffers may run on different goroutines.
//
// # Inner Products
//
// Kernels accumulate through a dot.InnerProduct. The default is chosen per
// CPU; WithInnerProduct overrides it for a session.
package conv
