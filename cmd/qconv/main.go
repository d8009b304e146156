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

// Command qconv plans, runs and checks quantized int8 convolutions.
//
// Usage:
//
//	qconv plan --in 10x10x3 --filter 3x3 --out-ch 64
//	qconv check --random 200 --prepad
//	qconv run --in 10x10x64 --filter 1x1 --out-ch 64 --input x.bin --weights w.bin --output y.bin
//	qconv bench --in 112x112x3 --filter 6x6 --out-ch 16 --stride 2
//	qconv cpuinfo
//
// Setting HWY_NO_SIMD=1 forces the portable inner product.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("qconv: ")

	if err := newRootCmd().Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qconv",
		Short:         "Quantized int8 2-D convolution engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newPlanCmd(),
		newCheckCmd(),
		newRunCmd(),
		newBenchCmd(),
		newCPUInfoCmd(),
	)
	return root
}
