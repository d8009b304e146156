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
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-qconv/hwy"
	"github.com/ajroetker/go-qconv/hwy/contrib/dot"
)

func newCPUInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cpuinfo",
		Short: "Print the detected dispatch level and CPU features",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "arch        %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(w, "level       %s\n", hwy.CurrentName())
			fmt.Fprintf(w, "width       %d bytes (%d int8 lanes)\n", hwy.CurrentWidth(), hwy.MaxLanes[int8]())
			fmt.Fprintf(w, "no-simd     %v\n", hwy.NoSimdEnv())
			fmt.Fprintf(w, "inner       %s\n", dot.Default().Name())
			fmt.Fprintf(w, "vnni        %v\n", hwy.HasVNNI())
			fmt.Fprintf(w, "dotprod     %v\n", hwy.HasDotProd())
			for _, f := range features() {
				fmt.Fprintf(w, "%-11s %v\n", f.name, f.ok)
			}
		},
	}
}

type feature struct {
	name string
	ok   bool
}

func features() []feature {
	switch runtime.GOARCH {
	case "amd64", "386":
		return []feature{
			{"avx2", cpu.X86.HasAVX2},
			{"avx512f", cpu.X86.HasAVX512F},
			{"avx512bw", cpu.X86.HasAVX512BW},
			{"avx512vnni", cpu.X86.HasAVX512VNNI},
		}
	case "arm64":
		return []feature{
			{"asimd", cpu.ARM64.HasASIMD},
			{"asimddp", cpu.ARM64.HasASIMDDP},
			{"sve", cpu.ARM64.HasSVE},
		}
	}
	return nil
}
