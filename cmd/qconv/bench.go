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
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-qconv/hwy/contrib/conv/conformance"
	"github.com/ajroetker/go-qconv/hwy/contrib/dot"
)

func newBenchCmd() *cobra.Command {
	var (
		flags  shapeFlags
		repeat int
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time every inner-product strategy against the reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.parse()
			if err != nil {
				return err
			}
			c := conformance.Case{
				Name:        "bench",
				In:          s.in,
				Filter:      s.filter,
				OutChannels: s.out.Channels,
				Params:      s.params,
				Seed:        seed,
			}

			p := message.NewPrinter(language.English)
			w := cmd.OutOrStdout()
			macs := s.out.Size() * s.filter.Width * s.filter.Height * s.in.Channels
			p.Fprintf(w, "%v -> %v, %d multiply-accumulates per call\n", s.in, s.out, macs)

			for _, ip := range dot.All() {
				r := conformance.RunCase(c, ip, flags.prePad, repeat)
				if r.Err != nil {
					return r.Err
				}
				status := "ok"
				if !r.Passed() {
					status = "MISMATCH"
				}
				p.Fprintf(w, "%-9s %-8s %12v  reference %12v  %6.2fx  %.1f MMAC/s  %s\n",
					ip.Name(), r.Variant, r.Kernel, r.Reference,
					float64(r.Reference)/float64(max(r.Kernel, 1)), mmacs(macs, r.Kernel), status)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&repeat, "repeat", 20, "timed calls per strategy")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "operand seed")
	return cmd
}

func mmacs(macs int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(macs) / d.Seconds() / 1e6
}

