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

import "errors"

var (
	// ErrInvalidShape is returned for zero or negative dimensions, channel
	// counts above MaxChannels, bad strides, pads or dilation, and filters
	// or outputs that do not fit the padded input.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrOffsetRange is returned when a zero point is outside its range.
	ErrOffsetRange = errors.New("offset out of range")

	// ErrActivationRange is returned when the activation bounds are not an
	// ordered int8 range.
	ErrActivationRange = errors.New("activation range invalid")

	// ErrQuantParams is returned for missing or out-of-range per-channel
	// multipliers and shifts.
	ErrQuantParams = errors.New("invalid quantization parameters")

	// ErrBufferTooSmall is returned when an input, filter, bias or output
	// slice is shorter than its declared shape.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrScratchNotRegistered is returned by Convolve when the selected
	// variant needs scratch memory and none is registered.
	ErrScratchNotRegistered = errors.New("scratch buffer not registered")

	// ErrScratchTooSmall is returned by RegisterScratch when the buffer is
	// shorter than the planned scratch size.
	ErrScratchTooSmall = errors.New("scratch buffer too small")
)
