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

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-qconv/hwy/contrib/conv"
)

func newPlanCmd() *cobra.Command {
	var flags shapeFlags
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the kernel variant and scratch layout of a convolution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.parse()
			if err != nil {
				return err
			}
			sess, err := conv.Prepare(s.in, s.filter, s.out, s.params, s.opts...)
			if err != nil {
				return err
			}
			l := sess.Layout()
			p := message.NewPrinter(language.English)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "input     %v\nfilter    %dx%d\noutput    %v\n", s.in, s.filter.Width, s.filter.Height, s.out)
			fmt.Fprintf(w, "variant   %v\n", sess.Variant())
			fmt.Fprintf(w, "strategy  %s\n", sess.InnerProduct().Name())
			p.Fprintf(w, "channels  %d (padded)\n", l.Channels)
			p.Fprintf(w, "input     %d bytes\n", l.Input)
			p.Fprintf(w, "filter    %d bytes\n", l.Filter)
			p.Fprintf(w, "transpose %d bytes\n", l.Transpose)
			p.Fprintf(w, "offsets   %d bytes\n", l.OffsetAcc)
			p.Fprintf(w, "slack     %d bytes\n", l.Slack)
			p.Fprintf(w, "scratch   %d bytes\n", sess.ScratchSize())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
