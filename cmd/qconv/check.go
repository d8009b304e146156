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

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-qconv/hwy/contrib/conv"
	"github.com/ajroetker/go-qconv/hwy/contrib/conv/conformance"
	"github.com/ajroetker/go-qconv/hwy/contrib/dot"
	"github.com/ajroetker/go-qconv/hwy/contrib/workerpool"
)

const (
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorReset = "\x1b[0m"
)

func newCheckCmd() *cobra.Command {
	var (
		random   int
		seed     uint64
		prePad   bool
		workers  int
		strategy string
		color    bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare every kernel with the reference convolution",
		Long: "Runs the original test matrix, plus optional random cases, through every\n" +
			"inner-product strategy and prints one line per case and configuration.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cases := conformance.OriginalMatrix()
			if random > 0 {
				cases = append(cases, conformance.RandomCases(random, seed)...)
			}

			opts := conformance.Options{}
			if strategy != "" {
				ip, ok := dot.ByName(strategy)
				if !ok {
					return fmt.Errorf("--strategy: unknown inner product %q", strategy)
				}
				opts.Strategies = []dot.InnerProduct{ip}
			}
			if prePad {
				opts.PrePadding = []bool{false, true}
			}

			pool := workerpool.New(workers)
			defer pool.Close()
			if err := conformance.ValidateCases(pool, cases); err != nil {
				return err
			}
			results := conformance.Run(pool, cases, opts)

			w := cmd.OutOrStdout()
			paint := func(c, s string) string {
				if !color {
					return s
				}
				return c + s + colorReset
			}
			for i, r := range results {
				status := paint(colorGreen, "passed")
				if !r.Passed() {
					status = paint(colorRed, "failed")
				}
				fmt.Fprintf(w, "[%3d] %s %s %-8s %-8s prepad=%-5v %s\n",
					i, status, r.Case, r.Variant, r.Strategy, r.PrePadding, r.Case.Name)
				if r.Err != nil {
					fmt.Fprintf(w, "      error: %v\n", r.Err)
				} else if r.Mismatches > 0 {
					fmt.Fprintf(w, "      %d of %d values differ\n", r.Mismatches, r.Case.Out().Size())
				}
			}

			s := conformance.Summarize(results)
			p := message.NewPrinter(language.English)
			p.Fprintf(w, "\n%d configurations, %d failed\n", s.Total, s.Failed)
			for _, v := range []conv.Variant{conv.OneByOne, conv.Windowed, conv.Fallback} {
				p.Fprintf(w, "  %-8s %d\n", v, s.ByVariant[v])
			}
			macs := lo.SumBy(results, func(r conformance.Result) int {
				return r.Case.Out().Size() * r.Case.Filter.Width * r.Case.Filter.Height * r.Case.In.Channels
			})
			p.Fprintf(w, "%d multiply-accumulates, kernels %.2fx faster than reference\n", macs, s.Speedup())

			if s.Failed > 0 {
				return fmt.Errorf("%d of %d configurations failed", s.Failed, s.Total)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&random, "random", 0, "number of random cases to add")
	fs.Uint64Var(&seed, "seed", 1, "seed for random cases")
	fs.BoolVar(&prePad, "prepad", false, "also run padded cases in pre-padding mode")
	fs.IntVar(&workers, "workers", 0, "worker goroutines (default GOMAXPROCS)")
	fs.StringVar(&strategy, "strategy", "", "run only this inner product (portable or lanes)")
	fs.BoolVar(&color, "color", false, "colorize pass/fail")
	return cmd
}
