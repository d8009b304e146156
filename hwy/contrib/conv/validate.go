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

// Validate checks shapes and parameters. It returns an error wrapping
// ErrInvalidShape, ErrOffsetRange or ErrActivationRange.
func Validate(in, filter, out Dims, p Params) error {
	for _, d := range []struct {
		name string
		dims Dims
	}{{"input", in}, {"output", out}} {
		if d.dims.Width <= 0 || d.dims.Height <= 0 || d.dims.Channels <= 0 {
			return fmt.Errorf("conv: %s dims %v: %w", d.name, d.dims, ErrInvalidShape)
		}
		if d.dims.Channels > MaxChannels {
			return fmt.Errorf("conv: %s has %d channels, max %d: %w", d.name, d.dims.Channels, MaxChannels, ErrInvalidShape)
		}
	}
	if filter.Width <= 0 || filter.Height <= 0 {
		return fmt.Errorf("conv: filter dims %dx%d: %w", filter.Width, filter.Height, ErrInvalidShape)
	}
	if p.StrideW < 1 || p.StrideH < 1 {
		return fmt.Errorf("conv: stride (%d,%d): %w", p.StrideW, p.StrideH, ErrInvalidShape)
	}
	if p.PadW < 0 || p.PadH < 0 {
		return fmt.Errorf("conv: padding (%d,%d): %w", p.PadW, p.PadH, ErrInvalidShape)
	}
	if p.DilationW > 1 || p.DilationH > 1 || p.DilationW < 0 || p.DilationH < 0 {
		return fmt.Errorf("conv: dilation (%d,%d) not supported: %w", p.DilationW, p.DilationH, ErrInvalidShape)
	}
	if filter.Width > in.Width+2*p.PadW || filter.Height > in.Height+2*p.PadH {
		return fmt.Errorf("conv: filter %dx%d larger than padded input %v: %w",
			filter.Width, filter.Height, in, ErrInvalidShape)
	}
	if (out.Width-1)*p.StrideW+filter.Width > in.Width+2*p.PadW ||
		(out.Height-1)*p.StrideH+filter.Height > in.Height+2*p.PadH {
		return fmt.Errorf("conv: output %v does not fit input %v: %w", out, in, ErrInvalidShape)
	}

	if p.InputOffset < -127 || p.InputOffset > 128 {
		return fmt.Errorf("conv: input offset %d: %w", p.InputOffset, ErrOffsetRange)
	}
	if p.OutputOffset < -128 || p.OutputOffset > 127 {
		return fmt.Errorf("conv: output offset %d: %w", p.OutputOffset, ErrOffsetRange)
	}
	if p.ActivationMin < -128 || p.ActivationMax > 127 || p.ActivationMin > p.ActivationMax {
		return fmt.Errorf("conv: activation [%d,%d]: %w", p.ActivationMin, p.ActivationMax, ErrActivationRange)
	}
	return nil
}

// validateQuant checks that q holds a valid scale for each of outCh channels.
func validateQuant(q Quant, outCh int) error {
	if len(q.Mult) < outCh || len(q.Shift) < outCh {
		return fmt.Errorf("conv: %d multipliers and %d shifts for %d channels: %w",
			len(q.Mult), len(q.Shift), outCh, ErrQuantParams)
	}
	for oc := range outCh {
		if c := q.Channel(oc); !c.Valid() {
			return fmt.Errorf("conv: channel %d multiplier %d shift %d (shift range [%d,%d]): %w",
				oc, c.Mult, c.Shift, requant.ShiftMin, requant.ShiftMax, ErrQuantParams)
		}
	}
	return nil
}

// validateBuffers checks the tensor slices against their declared shapes.
func validateBuffers(in, filter, out Dims, input, filterData []int8, bias []int32, output []int8) error {
	if len(input) < in.Size() {
		return fmt.Errorf("conv: input has %d values, want %d: %w", len(input), in.Size(), ErrBufferTooSmall)
	}
	if n := FilterSize(in, filter, out); len(filterData) < n {
		return fmt.Errorf("conv: filter has %d values, want %d: %w", len(filterData), n, ErrBufferTooSmall)
	}
	if bias != nil && len(bias) < out.Channels {
		return fmt.Errorf("conv: bias has %d values, want %d: %w", len(bias), out.Channels, ErrBufferTooSmall)
	}
	if len(output) < out.Size() {
		return fmt.Errorf("conv: output has %d values, want %d: %w", len(output), out.Size(), ErrBufferTooSmall)
	}
	return nil
}

// validateCall runs every check a convolution call needs.
func validateCall(in, filter, out Dims, p Params, input, filterData []int8, bias []int32, output []int8, q Quant) error {
	if err := Validate(in, filter, out, p); err != nil {
		return err
	}
	if err := validateBuffers(in, filter, out, input, filterData, bias, output); err != nil {
		return err
	}
	return validateQuant(q, out.Channels)
}
