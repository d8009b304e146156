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
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-qconv/hwy/contrib/dot"
	"github.com/ajroetker/go-qconv/hwy/contrib/requant"
)

func TestConvolveMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(2024, 1))
	for _, tc := range matrixCases {
		op := newOperands(rng, tc)
		want := reference(t, tc, op)
		for _, ip := range dot.All() {
			for _, prePad := range []bool{false, true} {
				t.Run(fmt.Sprintf("%s/%s/prepad=%v", tc.name, ip.Name(), prePad), func(t *testing.T) {
					s, err := Prepare(tc.in, tc.filter, tc.out(), tc.p, WithInnerProduct(ip), WithPrePadding(prePad))
					require.NoError(t, err)
					require.NoError(t, s.RegisterScratch(unalignedScratch(s.ScratchSize(), 3)))

					got := make([]int8, tc.out().Size())
					require.NoError(t, s.Convolve(op.input, op.filter, op.bias, got, op.q))
					requireSameTensor(t, want, got)
				})
			}
		}
	}
}

func TestConvolveNilBias(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	for _, tc := range matrixCases {
		t.Run(tc.name, func(t *testing.T) {
			op := newOperands(rng, tc)
			op.bias = nil
			want := reference(t, tc, op)

			s, err := Prepare(tc.in, tc.filter, tc.out(), tc.p)
			require.NoError(t, err)
			require.NoError(t, s.RegisterScratch(make([]byte, s.ScratchSize())))
			got := make([]int8, tc.out().Size())
			require.NoError(t, s.Convolve(op.input, op.filter, nil, got, op.q))
			requireSameTensor(t, want, got)
		})
	}
}

func TestSessionVariant(t *testing.T) {
	for _, tc := range matrixCases {
		s, err := Prepare(tc.in, tc.filter, tc.out(), tc.p)
		require.NoError(t, err, tc.name)
		assert.Equal(t, SelectVariant(tc.filter, tc.p), s.Variant(), tc.name)
		assert.Equal(t, ScratchSize(tc.in, tc.filter, tc.out(), tc.p), s.ScratchSize(), tc.name)

		pre, err := Prepare(tc.in, tc.filter, tc.out(), tc.p, WithPrePadding(true))
		require.NoError(t, err, tc.name)
		if tc.p.Padded() {
			assert.Equal(t, Windowed, pre.Variant(), tc.name)
		} else {
			assert.Equal(t, s.Variant(), pre.Variant(), tc.name)
		}
		assert.Equal(t, s.ScratchSize(), pre.ScratchSize(), tc.name)
		assert.Equal(t, s.Variant(), s.Layout().Variant, tc.name)
		assert.Equal(t, pre.Variant(), pre.Layout().Variant, tc.name)
	}
}

func TestStoreMatchesRequantOutput(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	const outCh = 4
	pr := problem{
		out:    Dims{Width: 1, Height: 1, Channels: outCh},
		p:      Params{OutputOffset: -3, ActivationMin: -120, ActivationMax: 110},
		output: make([]int8, outCh),
		q: Quant{
			Mult:  []int32{0, 1 << 30, 0x7f67f4f8, math.MaxInt32},
			Shift: []int32{0, requant.ShiftMax, -10, requant.ShiftMin},
		},
	}
	for range 1000 {
		acc := int32(rng.Uint32())
		for oc := range outCh {
			pr.store(oc, acc, oc)
			want := requant.Output(acc, pr.q.Mult[oc], pr.q.Shift[oc], -3, -120, 110)
			require.Equal(t, want, pr.output[oc], "acc %d channel %d", acc, oc)
		}
	}
}

func TestScratchNotRegistered(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	for _, tc := range matrixCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Prepare(tc.in, tc.filter, tc.out(), tc.p)
			require.NoError(t, err)
			op := newOperands(rng, tc)

			got := make([]int8, tc.out().Size())
			for i := range got {
				got[i] = 0x55
			}
			err = s.Convolve(op.input, op.filter, op.bias, got, op.q)
			if s.Variant() == Fallback {
				// The fallback kernel needs no scratch.
				require.NoError(t, err)
				requireSameTensor(t, reference(t, tc, op), got)
				return
			}
			require.ErrorIs(t, err, ErrScratchNotRegistered)
			for i, v := range got {
				require.Equal(t, int8(0x55), v, "output[%d] written", i)
			}
		})
	}
}

func TestRegisterScratch(t *testing.T) {
	tc := matrixCases[0]
	s, err := Prepare(tc.in, tc.filter, tc.out(), tc.p)
	require.NoError(t, err)

	err = s.RegisterScratch(make([]byte, s.ScratchSize()-1))
	require.ErrorIs(t, err, ErrScratchTooSmall)

	require.NoError(t, s.RegisterScratch(make([]byte, s.ScratchSize())))
	op := newOperands(rand.New(rand.NewPCG(1, 1)), tc)
	got := make([]int8, tc.out().Size())
	require.NoError(t, s.Convolve(op.input, op.filter, op.bias, got, op.q))

	s.ReleaseScratch()
	require.ErrorIs(t, s.Convolve(op.input, op.filter, op.bias, got, op.q), ErrScratchNotRegistered)

	// Re-registering replaces the previous buffer.
	require.NoError(t, s.RegisterScratch(make([]byte, s.ScratchSize()+100)))
	require.NoError(t, s.RegisterScratch(make([]byte, s.ScratchSize())))
	require.NoError(t, s.Convolve(op.input, op.filter, op.bias, got, op.q))
}

func TestConvolveRejectsBadCalls(t *testing.T) {
	tc := shape("3x3", 10, 10, 3, 64, 3, 1, 0)
	out := tc.out()
	s, err := Prepare(tc.in, tc.filter, out, tc.p)
	require.NoError(t, err)
	require.NoError(t, s.RegisterScratch(make([]byte, s.ScratchSize())))

	fresh := func() operands { return newOperands(rand.New(rand.NewPCG(3, 3)), tc) }
	tests := []struct {
		name    string
		mutate  func(op *operands, output *[]int8)
		wantErr error
	}{
		{"short input", func(op *operands, _ *[]int8) { op.input = op.input[:len(op.input)-1] }, ErrBufferTooSmall},
		{"short filter", func(op *operands, _ *[]int8) { op.filter = op.filter[:10] }, ErrBufferTooSmall},
		{"short bias", func(op *operands, _ *[]int8) { op.bias = op.bias[:63] }, ErrBufferTooSmall},
		{"short output", func(_ *operands, output *[]int8) { *output = (*output)[:1] }, ErrBufferTooSmall},
		{"missing shifts", func(op *operands, _ *[]int8) { op.q.Shift = op.q.Shift[:2] }, ErrQuantParams},
		{"negative multiplier", func(op *operands, _ *[]int8) { op.q.Mult[7] = -1 }, ErrQuantParams},
		{"shift too small", func(op *operands, _ *[]int8) { op.q.Shift[0] = -32 }, ErrQuantParams},
		{"shift too large", func(op *operands, _ *[]int8) { op.q.Shift[63] = 31 }, ErrQuantParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := fresh()
			output := make([]int8, out.Size())
			for i := range output {
				output[i] = 0x11
			}
			tt.mutate(&op, &output)
			err := s.Convolve(op.input, op.filter, op.bias, output, op.q)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			for _, v := range output {
				require.Equal(t, int8(0x11), v)
			}
		})
	}
}

func TestPrepareRejectsInvalidShape(t *testing.T) {
	_, err := Prepare(Dims{10, 10, 3}, Dims{3, 3, 0}, Dims{10, 10, 64}, baseParams(1, 0))
	require.ErrorIs(t, err, ErrInvalidShape)

	_, err = Prepare(Dims{10, 10, 3}, Dims{3, 3, 0}, Dims{8, 8, 64}, Params{StrideW: 1, StrideH: 1, ActivationMin: 1})
	require.ErrorIs(t, err, ErrActivationRange)
}

// Example scenario: 10x10x3 input, 3x3 filter, 64 outputs.
func TestConvolve3x3Scenario(t *testing.T) {
	tc := shape("3x3", 10, 10, 3, 64, 3, 1, 0)
	out := tc.out()
	require.Equal(t, Dims{Width: 8, Height: 8, Channels: 64}, out)

	s, err := Prepare(tc.in, tc.filter, out, tc.p)
	require.NoError(t, err)
	require.Equal(t, Windowed, s.Variant())
	require.NoError(t, s.RegisterScratch(make([]byte, s.ScratchSize())))

	op := newOperands(rand.New(rand.NewPCG(42, 0)), tc)
	got := make([]int8, out.Size())
	require.NoError(t, s.Convolve(op.input, op.filter, op.bias, got, op.q))
	requireSameTensor(t, reference(t, tc, op), got)
	for _, v := range got {
		require.GreaterOrEqual(t, v, int8(-125))
		require.LessOrEqual(t, v, int8(122))
	}
}

// Example scenario: 1x1 64->64 on 10x10, and the 20-channel tail case.
func TestConvolve1x1Scenario(t *testing.T) {
	for _, tc := range []testCase{
		shape("ch64", 10, 10, 64, 64, 1, 1, 0),
		shape("ch20", 10, 10, 20, 64, 1, 1, 0),
	} {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.out()
			require.Equal(t, Dims{Width: 10, Height: 10, Channels: 64}, out)

			s, err := Prepare(tc.in, tc.filter, out, tc.p)
			require.NoError(t, err)
			require.Equal(t, OneByOne, s.Variant())
			require.NoError(t, s.RegisterScratch(make([]byte, s.ScratchSize())))

			op := newOperands(rand.New(rand.NewPCG(7, 0)), tc)
			got := make([]int8, out.Size())
			require.NoError(t, s.Convolve(op.input, op.filter, op.bias, got, op.q))
			requireSameTensor(t, reference(t, tc, op), got)
		})
	}
}

func TestChannelPaddingTransparency(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for _, tc := range []testCase{
		shape("ch64", 10, 10, 64, 64, 1, 1, 0),
		shape("ch16", 8, 8, 16, 16, 1, 1, 0),
		shape("ch8 small", 2, 2, 8, 8, 1, 1, 0),
	} {
		t.Run(tc.name, func(t *testing.T) {
			out := tc.out()
			plain, err := Prepare(tc.in, tc.filter, out, tc.p)
			require.NoError(t, err)
			assert.Zero(t, plain.Layout().Input, "aligned channels need no input copy")

			forced, err := Prepare(tc.in, tc.filter, out, tc.p, withChannelPadding())
			require.NoError(t, err)
			assert.Equal(t, tc.in.Pixels()*tc.in.Channels, forced.Layout().Input)

			require.NoError(t, plain.RegisterScratch(make([]byte, plain.ScratchSize())))
			require.NoError(t, forced.RegisterScratch(make([]byte, forced.ScratchSize())))

			op := newOperands(rng, tc)
			a := make([]int8, out.Size())
			b := make([]int8, out.Size())
			require.NoError(t, plain.Convolve(op.input, op.filter, op.bias, a, op.q))
			require.NoError(t, forced.Convolve(op.input, op.filter, op.bias, b, op.q))
			requireSameTensor(t, a, b)
		})
	}
}

func TestConvolveFallback(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 22))
	for _, tc := range matrixCases {
		t.Run(tc.name, func(t *testing.T) {
			op := newOperands(rng, tc)
			got := make([]int8, tc.out().Size())
			require.NoError(t, ConvolveFallback(tc.in, op.input, tc.filter, op.filter, op.bias, tc.out(), got, tc.p, op.q))
			requireSameTensor(t, reference(t, tc, op), got)
		})
	}
}

func TestZeroMultiplierOutputsOffset(t *testing.T) {
	tc := shape("3x3", 10, 10, 3, 8, 3, 1, 0)
	op := newOperands(rand.New(rand.NewPCG(1, 2)), tc)
	for i := range op.q.Mult {
		op.q.Mult[i] = 0
	}
	s, err := Prepare(tc.in, tc.filter, tc.out(), tc.p)
	require.NoError(t, err)
	require.NoError(t, s.RegisterScratch(make([]byte, s.ScratchSize())))
	got := make([]int8, tc.out().Size())
	require.NoError(t, s.Convolve(op.input, op.filter, op.bias, got, op.q))
	for _, v := range got {
		require.Equal(t, int8(tc.p.OutputOffset), v)
	}
}

func BenchmarkConvolve(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	for _, tc := range []testCase{
		shape("1x1 ch64", 10, 10, 64, 64, 1, 1, 0),
		shape("3x3 ch3", 10, 10, 3, 64, 3, 1, 0),
		shape("3x3 pad1 ch12", 10, 10, 12, 64, 3, 1, 1),
	} {
		op := newOperands(rng, tc)
		out := make([]int8, tc.out().Size())
		for _, ip := range dot.All() {
			b.Run(tc.name+"/"+ip.Name(), func(b *testing.B) {
				s, err := Prepare(tc.in, tc.filter, tc.out(), tc.p, WithInnerProduct(ip))
				require.NoError(b, err)
				require.NoError(b, s.RegisterScratch(make([]byte, s.ScratchSize())))
				for b.Loop() {
					_ = s.Convolve(op.input, op.filter, op.bias, out, op.q)
				}
			})
		}
		b.Run(tc.name+"/reference", func(b *testing.B) {
			for b.Loop() {
				_ = ConvolveReference(tc.in, op.input, tc.filter, op.filter, op.bias, tc.out(), out, tc.p, op.q)
			}
		})
	}
}
