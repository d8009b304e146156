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

// Package conformance sweeps convolution shapes through every kernel
// configuration and compares each output with the reference convolution.
package conformance

import (
	"fmt"
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/ajroetker/go-qconv/hwy/contrib/conv"
)

// Offsets and activation range shared by the generated cases.
const (
	InputOffset   = 5
	OutputOffset  = 3
	ActivationMin = -125
	ActivationMax = 122
)

// Case is one convolution shape with the seed for its operands.
type Case struct {
	Name        string
	In          conv.Dims
	Filter      conv.Dims
	OutChannels int
	Params      conv.Params
	Seed        uint64
}

// Out returns the output shape of the case.
func (c Case) Out() conv.Dims {
	return conv.OutputDims(c.In, c.Filter, c.OutChannels, c.Params)
}

func (c Case) String() string {
	out := c.Out()
	return fmt.Sprintf("[pad: (%d, %d), stride: (%d, %d) out: (%3d,%3d,%3d), filter: (%d, %d,%3d)]",
		c.Params.PadW, c.Params.PadH, c.Params.StrideW, c.Params.StrideH,
		out.Width, out.Height, out.Channels, c.Filter.Width, c.Filter.Height, c.In.Channels)
}

// Operands are the tensors of one case.
type Operands struct {
	Input  []int8
	Filter []int8
	Bias   []int32
	Quant  conv.Quant
}

// Generate draws the operands of c from its seed: inputs in [-128, 126],
// filters in [-128, 127], biases in [255, 65789], shifts of -10 or -9 and
// multipliers in [0x7f67f4f8, 0x7f67f529].
func (c Case) Generate() Operands {
	rng := rand.New(rand.NewPCG(c.Seed, 0x9e3779b97f4a7c15))
	out := c.Out()
	op := Operands{
		Input:  make([]int8, c.In.Size()),
		Filter: make([]int8, conv.FilterSize(c.In, c.Filter, out)),
		Bias:   make([]int32, c.OutChannels),
		Quant: conv.Quant{
			Mult:  make([]int32, c.OutChannels),
			Shift: make([]int32, c.OutChannels),
		},
	}
	for i := range op.Input {
		op.Input[i] = int8(rng.IntN(255) - 128)
	}
	for i := range op.Filter {
		op.Filter[i] = int8(rng.IntN(256) - 128)
	}
	for i := range c.OutChannels {
		op.Bias[i] = int32(rng.IntN(65535)) + 255
		op.Quant.Shift[i] = -10 + int32(rng.IntN(2))
		op.Quant.Mult[i] = 0x7f67f4f8 + int32(rng.IntN(50))
	}
	return op
}

func params(stride, pad int) conv.Params {
	return conv.Params{
		InputOffset:   InputOffset,
		OutputOffset:  OutputOffset,
		StrideW:       stride,
		StrideH:       stride,
		PadW:          pad,
		PadH:          pad,
		ActivationMin: ActivationMin,
		ActivationMax: ActivationMax,
	}
}

func square(name string, w, h, ch, outCh, f, stride, pad int) Case {
	return Case{
		Name:        name,
		In:          conv.Dims{Width: w, Height: h, Channels: ch},
		Filter:      conv.Dims{Width: f, Height: f},
		OutChannels: outCh,
		Params:      params(stride, pad),
	}
}

// OriginalMatrix returns the fifteen iterations of the s8 convolution
// test matrix: the ten listed geometries followed by five repetitions of
// the default 8x8x16 1x1 case, each with its own seed.
func OriginalMatrix() []Case {
	listed := []Case{
		square("1x1 ch%8==0", 10, 10, 64, 64, 1, 1, 0),
		square("1x1 ch%4==0", 4, 4, 20, 8, 1, 1, 0),
		square("3x3x3", 10, 10, 3, 64, 3, 1, 0),
		square("1x1 ch3", 10, 10, 3, 64, 1, 1, 0),
		square("3x3 pad1", 10, 10, 12, 64, 3, 1, 1),
		square("1x1 stride2", 16, 16, 16, 16, 1, 2, 0),
		square("1x1 2x2", 2, 2, 8, 8, 1, 1, 0),
		square("6x6 stride2 ch3", 112, 112, 3, 16, 6, 2, 0),
		square("6x6 stride2 ch5", 8, 8, 5, 16, 6, 2, 0),
		square("3x3 pad1 3x3", 3, 3, 32, 1, 3, 1, 1),
	}
	cases := append(listed, lo.Times(15-len(listed), func(int) Case {
		return square("1x1 default", 8, 8, 16, 16, 1, 1, 0)
	})...)
	for i := range cases {
		cases[i].Seed = uint64(i)
	}
	return cases
}

// RandomCases returns n valid cases with random geometry, offsets and
// activation ranges, reproducible from seed.
func RandomCases(n int, seed uint64) []Case {
	rng := rand.New(rand.NewPCG(seed, seed^0x5bd1e995))
	return lo.Times(n, func(i int) Case {
		f := 1 + rng.IntN(5)
		stride := 1 + rng.IntN(2)
		pad := 0
		if rng.IntN(2) == 1 {
			pad = rng.IntN(f/2 + 1)
		}
		in := conv.Dims{
			Width:    max(f-2*pad, 1) + rng.IntN(12),
			Height:   max(f-2*pad, 1) + rng.IntN(12),
			Channels: 1 + rng.IntN(40),
		}
		actMin := int32(rng.IntN(256) - 128)
		actMax := actMin + int32(rng.IntN(int(128-actMin)))
		return Case{
			Name:        fmt.Sprintf("random %d", i),
			In:          in,
			Filter:      conv.Dims{Width: f, Height: f},
			OutChannels: 1 + rng.IntN(24),
			Params: conv.Params{
				InputOffset:   int32(rng.IntN(256) - 127),
				OutputOffset:  int32(rng.IntN(256) - 128),
				StrideW:       stride,
				StrideH:       stride,
				PadW:          pad,
				PadH:          pad,
				ActivationMin: actMin,
				ActivationMax: actMax,
			},
			Seed: rng.Uint64(),
		}
	})
}
