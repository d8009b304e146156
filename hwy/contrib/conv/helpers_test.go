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
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// testCase is one convolution shape used across the kernel tests.
type testCase struct {
	name       string
	in, filter Dims
	outCh      int
	p          Params
}

func (tc testCase) out() Dims {
	return OutputDims(tc.in, tc.filter, tc.outCh, tc.p)
}

// baseParams are the offsets and activation range of the reference test
// matrix.
func baseParams(stride, pad int) Params {
	return Params{
		InputOffset:   5,
		OutputOffset:  3,
		StrideW:       stride,
		StrideH:       stride,
		PadW:          pad,
		PadH:          pad,
		ActivationMin: -125,
		ActivationMax: 122,
	}
}

func shape(name string, w, h, ch, outCh, f, stride, pad int) testCase {
	return testCase{
		name:   name,
		in:     Dims{Width: w, Height: h, Channels: ch},
		filter: Dims{Width: f, Height: f},
		outCh:  outCh,
		p:      baseParams(stride, pad),
	}
}

// matrixCases covers every padding, stride and channel class of the
// reference test matrix plus a few extra geometries.
var matrixCases = []testCase{
	shape("1x1 ch64", 10, 10, 64, 64, 1, 1, 0),
	shape("1x1 ch20", 4, 4, 20, 8, 1, 1, 0),
	shape("3x3 ch3", 10, 10, 3, 64, 3, 1, 0),
	shape("1x1 ch3", 10, 10, 3, 64, 1, 1, 0),
	shape("3x3 pad1 ch12", 10, 10, 12, 64, 3, 1, 1),
	shape("1x1 stride2", 16, 16, 16, 16, 1, 2, 0),
	shape("1x1 2x2", 2, 2, 8, 8, 1, 1, 0),
	shape("6x6 stride2 ch3", 40, 40, 3, 16, 6, 2, 0),
	shape("6x6 stride2 ch5", 8, 8, 5, 16, 6, 2, 0),
	shape("3x3 pad1 3x3 input", 3, 3, 32, 1, 3, 1, 1),
	shape("1x1 ch16", 8, 8, 16, 16, 1, 1, 0),
	shape("2x2 stride2 pad1", 7, 5, 9, 3, 2, 2, 1),
	shape("5x5 pad2 ch1", 6, 6, 1, 4, 5, 1, 2),
	shape("1x1 ch1 out13", 5, 3, 1, 13, 1, 1, 0),
	shape("4x4 ch8 stride3", 11, 11, 8, 10, 4, 3, 0),
	{
		name:   "asymmetric",
		in:     Dims{Width: 9, Height: 6, Channels: 7},
		filter: Dims{Width: 3, Height: 2},
		outCh:  5,
		p: Params{InputOffset: -127, OutputOffset: -128, StrideW: 2, StrideH: 1,
			PadW: 1, ActivationMin: -128, ActivationMax: 127},
	},
	{
		name:   "offset 128",
		in:     Dims{Width: 6, Height: 6, Channels: 4},
		filter: Dims{Width: 3, Height: 3},
		outCh:  6,
		p: Params{InputOffset: 128, OutputOffset: 0, StrideW: 1, StrideH: 1,
			PadW: 1, PadH: 1, ActivationMin: -100, ActivationMax: 100},
	},
}

// operands holds random tensors for one testCase.
type operands struct {
	input  []int8
	filter []int8
	bias   []int32
	q      Quant
}

// newOperands fills tensors the way the reference test matrix does: inputs
// in [-128, 126], filters in [-128, 127], positive biases and multipliers
// just below 1.0 with a right shift of 9 or 10.
func newOperands(rng *rand.Rand, tc testCase) operands {
	out := tc.out()
	op := operands{
		input:  make([]int8, tc.in.Size()),
		filter: make([]int8, FilterSize(tc.in, tc.filter, out)),
		bias:   make([]int32, tc.outCh),
		q:      Quant{Mult: make([]int32, tc.outCh), Shift: make([]int32, tc.outCh)},
	}
	for i := range op.input {
		op.input[i] = int8(rng.IntN(255) - 128)
	}
	for i := range op.filter {
		op.filter[i] = int8(rng.IntN(256) - 128)
	}
	for i := range tc.outCh {
		op.bias[i] = int32(rng.IntN(65535)) + 255
		op.q.Shift[i] = -10 + int32(rng.IntN(2))
		op.q.Mult[i] = 0x7f67f4f8 + int32(rng.IntN(50))
	}
	return op
}

// reference runs ConvolveReference for tc.
func reference(t *testing.T, tc testCase, op operands) []int8 {
	t.Helper()
	out := tc.out()
	want := make([]int8, out.Size())
	require.NoError(t, ConvolveReference(tc.in, op.input, tc.filter, op.filter, op.bias, out, want, tc.p, op.q))
	return want
}

// unalignedScratch returns exactly size bytes starting at an odd address
// offset.
func unalignedScratch(size, skew int) []byte {
	buf := make([]byte, size+skew)
	return buf[skew : skew+size : skew+size]
}

// requireSameTensor fails with a readable diff when got differs from want.
func requireSameTensor(t *testing.T, want, got []int8) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
