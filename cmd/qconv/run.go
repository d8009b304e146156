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
	"log"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-qconv/hwy/contrib/conv"
)

func newRunCmd() *cobra.Command {
	var (
		flags      shapeFlags
		inputPath  string
		filterPath string
		biasPath   string
		outputPath string
		mult       int32
		shift      int32
		verify     bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Convolve raw int8 tensor files",
		Long: "Reads an NHWC int8 input and an [out][h][w][in] int8 filter from raw files,\n" +
			"optionally a little-endian int32 bias, and writes the int8 output.\n" +
			"Every output channel uses the same multiplier and shift.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.parse()
			if err != nil {
				return err
			}
			input, err := readInt8File(inputPath, s.in.Size())
			if err != nil {
				return err
			}
			filter, err := readInt8File(filterPath, conv.FilterSize(s.in, s.filter, s.out))
			if err != nil {
				return err
			}
			var bias []int32
			if biasPath != "" {
				if bias, err = readInt32File(biasPath, s.out.Channels); err != nil {
					return err
				}
			}
			q := conv.Quant{Mult: make([]int32, s.out.Channels), Shift: make([]int32, s.out.Channels)}
			for i := range s.out.Channels {
				q.Mult[i], q.Shift[i] = mult, shift
			}

			sess, err := conv.Prepare(s.in, s.filter, s.out, s.params, s.opts...)
			if err != nil {
				return err
			}
			if err := sess.RegisterScratch(make([]byte, sess.ScratchSize())); err != nil {
				return err
			}
			output := make([]int8, s.out.Size())
			if err := sess.Convolve(input, filter, bias, output, q); err != nil {
				return err
			}
			log.Printf("%v -> %v with %s kernel, %d scratch bytes", s.in, s.out, sess.Variant(), sess.ScratchSize())

			if verify {
				want := make([]int8, s.out.Size())
				if err := conv.ConvolveReference(s.in, input, s.filter, filter, bias, s.out, want, s.params, q); err != nil {
					return err
				}
				for i := range want {
					if want[i] != output[i] {
						return fmt.Errorf("output[%d] = %d, reference %d", i, output[i], want[i])
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), "verified against reference")
			}

			if outputPath == "" {
				return nil
			}
			return writeInt8File(outputPath, output)
		},
	}
	flags.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&inputPath, "input", "", "raw int8 input tensor file (required)")
	fs.StringVar(&filterPath, "weights", "", "raw int8 filter tensor file (required)")
	fs.StringVar(&biasPath, "bias", "", "raw little-endian int32 bias file")
	fs.StringVar(&outputPath, "output", "", "raw int8 output tensor file")
	fs.Int32Var(&mult, "mult", 0x7f67f4f8, "requantization multiplier (Q31)")
	fs.Int32Var(&shift, "shift", -10, "requantization shift")
	fs.BoolVar(&verify, "verify", false, "compare with the reference convolution")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("weights")
	return cmd
}
