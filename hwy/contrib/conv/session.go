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

	"github.com/ajroetker/go-qconv/hwy/contrib/dot"
)

// Option configures a Session.
type Option func(*options)

type options struct {
	ip          dot.InnerProduct
	prePad      bool
	padChannels bool
}

// WithInnerProduct sets the inner-product strategy used by the kernels.
// The default is dot.Default().
func WithInnerProduct(ip dot.InnerProduct) Option {
	return func(o *options) {
		if ip != nil {
			o.ip = ip
		}
	}
}

// WithPrePadding routes padded convolutions through the windowed kernel on
// a spatially padded copy of the input instead of the fallback kernel.
// The scratch plan already reserves room for that copy.
func WithPrePadding(enabled bool) Option {
	return func(o *options) {
		o.prePad = enabled
	}
}

// withChannelPadding forces the 1x1 channel-padding copy even when the
// channel count is already a multiple of 8.
func withChannelPadding() Option {
	return func(o *options) {
		o.padChannels = true
	}
}

// Session is a prepared convolution shape with its scratch registration.
//
// Each Session owns exactly one scratch slot. A Session is not safe for
// concurrent use.
type Session struct {
	in, filter, out Dims
	params          Params
	variant         Variant
	layout          Layout
	opts            options
	scratch         []byte
}

// Prepare validates a convolution shape and plans its scratch memory.
func Prepare(in, filter, out Dims, p Params, opts ...Option) (*Session, error) {
	if err := Validate(in, filter, out, p); err != nil {
		return nil, err
	}
	s := &Session{
		in:     in,
		filter: filter,
		out:    out,
		params: p,
		opts:   options{ip: dot.Default()},
	}
	for _, opt := range opts {
		opt(&s.opts)
	}

	s.layout = PlanLayout(in, filter, out, p)
	s.variant = s.layout.Variant
	if s.variant == Fallback && s.opts.prePad {
		s.variant = Windowed
		s.layout.Variant = Windowed
	}
	if s.variant == OneByOne && s.opts.padChannels && s.layout.Input == 0 {
		s.layout.Input = in.Pixels() * s.layout.Channels
	}
	return s, nil
}

// Variant returns the kernel this session runs.
func (s *Session) Variant() Variant {
	return s.variant
}

// Layout returns the scratch plan of this session.
func (s *Session) Layout() Layout {
	return s.layout
}

// ScratchSize returns the number of scratch bytes to register.
func (s *Session) ScratchSize() int {
	return s.layout.Total()
}

// InnerProduct returns the inner-product strategy of this session.
func (s *Session) InnerProduct() dot.InnerProduct {
	return s.opts.ip
}

// RegisterScratch sets the scratch buffer, replacing any previous one.
// The buffer must hold at least ScratchSize bytes; its start need not be
// aligned. The caller keeps ownership and must not use the buffer while a
// Convolve call is running.
func (s *Session) RegisterScratch(buf []byte) error {
	if len(buf) < s.ScratchSize() {
		return fmt.Errorf("conv: scratch has %d bytes, want %d: %w", len(buf), s.ScratchSize(), ErrScratchTooSmall)
	}
	s.scratch = buf
	return nil
}

// ReleaseScratch drops the registered scratch buffer.
func (s *Session) ReleaseScratch() {
	s.scratch = nil
}

// Convolve computes the convolution into output. Every check runs before
// the first write, so on error output is untouched.
//
//   - input is [in.Height][in.Width][in.Channels]
//   - filterData is [out.Channels][filter.Height][filter.Width][in.Channels]
//   - bias is [out.Channels] (optional, pass nil to skip)
//   - output is [out.Height][out.Width][out.Channels]
func (s *Session) Convolve(input, filterData []int8, bias []int32, output []int8, q Quant) error {
	if s.variant.NeedsScratch() && s.scratch == nil {
		return fmt.Errorf("conv: %s kernel: %w", s.variant, ErrScratchNotRegistered)
	}
	if err := validateBuffers(s.in, s.filter, s.out, input, filterData, bias, output); err != nil {
		return err
	}
	if err := validateQuant(q, s.out.Channels); err != nil {
		return err
	}

	pr := problem{
		in: s.in, filter: s.filter, out: s.out, p: s.params,
		input: input, filterData: filterData, bias: bias, output: output, q: q,
	}
	switch s.variant {
	case OneByOne:
		a := arena{buf: s.scratch}
		pr.convolve1x1(&a, s.opts.ip, s.opts.padChannels)
	case Windowed:
		a := arena{buf: s.scratch}
		pr.convolveWindowed(&a, s.opts.ip, s.opts.prePad)
	default:
		pr.convolveFallback(s.opts.ip)
	}
	return nil
}
