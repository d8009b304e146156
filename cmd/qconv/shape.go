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

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-qconv/hwy/contrib/conv"
	"github.com/ajroetker/go-qconv/hwy/contrib/dot"
)

// shapeFlags describes one convolution on the command line.
type shapeFlags struct {
	in           string
	filter       string
	outCh        int
	stride       int
	pad          int
	inputOffset  int32
	outputOffset int32
	actMin       int32
	actMax       int32
	strategy     string
	prePad       bool
}

func (f *shapeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.in, "in", "10x10x3", "input shape WxHxC")
	fs.StringVar(&f.filter, "filter", "3x3", "filter shape WxH")
	fs.IntVar(&f.outCh, "out-ch", 64, "output channels")
	fs.IntVar(&f.stride, "stride", 1, "stride in both directions")
	fs.IntVar(&f.pad, "pad", 0, "padding in both directions")
	fs.Int32Var(&f.inputOffset, "input-offset", 5, "input offset (negated input zero point)")
	fs.Int32Var(&f.outputOffset, "output-offset", 3, "output zero point")
	fs.Int32Var(&f.actMin, "act-min", -125, "activation minimum")
	fs.Int32Var(&f.actMax, "act-max", 122, "activation maximum")
	fs.StringVar(&f.strategy, "strategy", "", "inner product: portable or lanes (default: per CPU)")
	fs.BoolVar(&f.prePad, "prepad", false, "run padded shapes through the windowed kernel on a padded input copy")
}

// shape is a parsed shapeFlags.
type shape struct {
	in, filter, out conv.Dims
	params          conv.Params
	opts            []conv.Option
}

func (f *shapeFlags) parse() (shape, error) {
	in, err := parseDims(f.in, 3)
	if err != nil {
		return shape{}, fmt.Errorf("--in: %w", err)
	}
	filter, err := parseDims(f.filter, 2)
	if err != nil {
		return shape{}, fmt.Errorf("--filter: %w", err)
	}
	s := shape{
		in:     in,
		filter: filter,
		params: conv.Params{
			InputOffset:   f.inputOffset,
			OutputOffset:  f.outputOffset,
			StrideW:       f.stride,
			StrideH:       f.stride,
			PadW:          f.pad,
			PadH:          f.pad,
			ActivationMin: f.actMin,
			ActivationMax: f.actMax,
		},
	}
	s.out = conv.OutputDims(in, filter, f.outCh, s.params)
	if err := conv.Validate(s.in, s.filter, s.out, s.params); err != nil {
		return shape{}, err
	}

	if f.strategy != "" {
		ip, ok := dot.ByName(f.strategy)
		if !ok {
			return shape{}, fmt.Errorf("--strategy: unknown inner product %q", f.strategy)
		}
		s.opts = append(s.opts, conv.WithInnerProduct(ip))
	}
	s.opts = append(s.opts, conv.WithPrePadding(f.prePad))
	return s, nil
}

// parseDims parses "WxH" or "WxHxC".
func parseDims(s string, n int) (conv.Dims, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != n {
		return conv.Dims{}, fmt.Errorf("%q: want %d dimensions", s, n)
	}
	vals := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return conv.Dims{}, fmt.Errorf("%q: %w", s, err)
		}
		vals[i] = v
	}
	d := conv.Dims{Width: vals[0], Height: vals[1]}
	if n == 3 {
		d.Channels = vals[2]
	}
	return d, nil
}
