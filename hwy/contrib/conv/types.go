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
	"fmt"

	"github.com/ajroetker/go-qconv/hwy/contrib/requant"
)

// MaxChannels is the largest supported channel count.
const MaxChannels = 65535

// Dims is the shape of an NHWC tensor with a batch of one.
//
// For filters only Width and Height are read; the channel counts come from
// the input and output tensors. A filter is laid out as
// [outChannels][Height][Width][inChannels].
type Dims struct {
	Width, Height, Channels int
}

// Size returns the number of elements in the tensor.
func (d Dims) Size() int {
	return d.Width * d.Height * d.Channels
}

// Pixels returns Width*Height.
func (d Dims) Pixels() int {
	return d.Width * d.Height
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.Width, d.Height, d.Channels)
}

// Params holds the convolution parameters.
type Params struct {
	// InputOffset is added to every input value, the negated input zero
	// point. It must be in [-127, 128].
	InputOffset int32

	// OutputOffset is the output zero point, in [-128, 127].
	OutputOffset int32

	StrideW, StrideH int
	PadW, PadH       int

	// DilationW and DilationH are reserved: 0 and 1 both mean no dilation.
	DilationW, DilationH int

	// ActivationMin and ActivationMax bound every output value.
	ActivationMin, ActivationMax int32
}

// Padded reports whether any spatial padding is requested.
func (p Params) Padded() bool {
	return p.PadW != 0 || p.PadH != 0
}

// Quant holds one requantization scale per output channel.
type Quant struct {
	Mult  []int32
	Shift []int32
}

// Channel returns the scale of output channel oc.
func (q Quant) Channel(oc int) requant.Channel {
	return requant.Channel{Mult: q.Mult[oc], Shift: q.Shift[oc]}
}

// FilterSize returns the number of filter elements for the given shapes.
func FilterSize(in, filter, out Dims) int {
	return filter.Width * filter.Height * in.Channels * out.Channels
}

// OutputDims returns the output shape produced by in and filter under p.
// It is the largest output whose every window ends inside the padded input.
func OutputDims(in, filter Dims, outChannels int, p Params) Dims {
	return Dims{
		Width:    (in.Width+2*p.PadW-filter.Width)/max(p.StrideW, 1) + 1,
		Height:   (in.Height+2*p.PadH-filter.Height)/max(p.StrideH, 1) + 1,
		Channels: outChannels,
	}
}
