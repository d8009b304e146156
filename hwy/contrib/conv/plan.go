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

import "github.com/ajroetker/go-qconv/hwy"

const (
	// AlignSlack is the fixed number of scratch bytes reserved for aligning
	// the staged sub-buffers.
	AlignSlack = 32

	// oneByOneLanes is the channel block of the 1x1 kernel.
	oneByOneLanes = 8

	// windowLanes is the channel block of the windowed kernel.
	windowLanes = 16

	// stageAlign is the byte alignment of every staged int8 copy.
	stageAlign = 16
)

// Variant identifies one of the convolution kernels.
type Variant int

const (
	// OneByOne is the 1x1, unpadded, unit-stride fast path.
	OneByOne Variant = iota

	// Windowed is the unpadded fast path for any filter size and stride.
	Windowed

	// Fallback is the generic path handling padding, with no scratch.
	Fallback
)

// String returns a human-readable name for the variant.
func (v Variant) String() string {
	switch v {
	case OneByOne:
		return "1x1"
	case Windowed:
		return "windowed"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// NeedsScratch reports whether the variant stages data in scratch memory.
func (v Variant) NeedsScratch() bool {
	return v == OneByOne || v == Windowed
}

// SelectVariant routes a convolution to a kernel. Rules, in order:
//  1. 1x1 filter, no padding, unit stride: OneByOne.
//  2. no padding: Windowed.
//  3. otherwise: Fallback.
func SelectVariant(filter Dims, p Params) Variant {
	switch {
	case filter.Width == 1 && filter.Height == 1 && !p.Padded() && p.StrideW == 1 && p.StrideH == 1:
		return OneByOne
	case !p.Padded():
		return Windowed
	default:
		return Fallback
	}
}

// Layout is the scratch plan for one convolution shape. Each field is the
// byte size of a named sub-buffer; Total is their sum.
type Layout struct {
	// Variant is the kernel SelectVariant picks for the shape.
	Variant Variant

	// Channels is the input channel count rounded up to the channel block
	// of the planning class (8 for 1x1, 16 otherwise).
	Channels int

	// Input is the channel-padded input copy (1x1) or the spatially padded
	// input copy (padded shapes).
	Input int

	// Filter is the channel-padded or row-padded filter copy.
	Filter int

	// Transpose is the 1x1 transpose block.
	Transpose int

	// OffsetAcc holds one int32 input-offset term per output channel.
	OffsetAcc int

	// Slack is AlignSlack.
	Slack int
}

// Total returns the scratch size in bytes.
func (l Layout) Total() int {
	return l.Input + l.Filter + l.Transpose + l.OffsetAcc + l.Slack
}

// PlanLayout computes the scratch plan for a convolution shape. It depends
// only on the shapes, never on buffer contents or addresses.
func PlanLayout(in, filter, out Dims, p Params) Layout {
	l := Layout{
		Variant: SelectVariant(filter, p),
		Slack:   AlignSlack,
	}
	ch := in.Channels
	outCh := out.Channels

	if l.Variant == OneByOne {
		l.Channels = hwy.RoundUp(ch, oneByOneLanes)
		if !hwy.IsMultiple(ch, oneByOneLanes) {
			l.Input = in.Pixels() * l.Channels
		}
		l.Filter = l.Channels * outCh
		if in.Pixels() >= oneByOneLanes {
			l.Transpose = 2 * oneByOneLanes * l.Channels
		}
		return l
	}

	l.Channels = hwy.RoundUp(ch, windowLanes)
	if p.Padded() {
		l.Input = (in.Width + 2*p.PadW) * (in.Height + 2*p.PadH) * ch
	}
	l.Filter = filter.Width * filter.Height * l.Channels * outCh
	l.OffsetAcc = 4 * outCh
	return l
}

// ScratchSize returns the number of scratch bytes a convolution of the
// given shape needs.
func ScratchSize(in, filter, out Dims, p Params) int {
	return PlanLayout(in, filter, out, p).Total()
}
