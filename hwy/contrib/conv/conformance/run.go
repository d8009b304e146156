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

package conformance

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/ajroetker/go-qconv/hwy/contrib/conv"
	"github.com/ajroetker/go-qconv/hwy/contrib/dot"
	"github.com/ajroetker/go-qconv/hwy/contrib/workerpool"
)

// Options selects the kernel configurations a sweep runs.
type Options struct {
	// Strategies are the inner products to run; nil means dot.All().
	Strategies []dot.InnerProduct

	// PrePadding lists the pre-padding modes to run; nil means {false}.
	PrePadding []bool

	// Repeat is the number of timed runs per configuration; 0 means 1.
	Repeat int
}

func (o Options) normalize() Options {
	if len(o.Strategies) == 0 {
		o.Strategies = dot.All()
	}
	if len(o.PrePadding) == 0 {
		o.PrePadding = []bool{false}
	}
	o.Repeat = max(o.Repeat, 1)
	return o
}

// Result is the outcome of one case under one kernel configuration.
type Result struct {
	Case       Case
	Variant    conv.Variant
	Strategy   string
	PrePadding bool

	// Mismatches counts output values differing from the reference.
	Mismatches int

	// Err is set when the session could not be prepared or run.
	Err error

	// Kernel and Reference are the mean durations of one convolution.
	Kernel    time.Duration
	Reference time.Duration
}

// Passed reports whether the kernel ran and matched the reference exactly.
func (r Result) Passed() bool {
	return r.Err == nil && r.Mismatches == 0
}

type job struct {
	caseIdx int
	ip      dot.InnerProduct
	prePad  bool
}

// Run executes every case under every configuration in opts on the pool.
// Each configuration gets its own session and scratch buffer. Results are
// ordered by case, then strategy, then pre-padding mode.
func Run(pool *workerpool.Pool, cases []Case, opts Options) []Result {
	opts = opts.normalize()

	operands := make([]Operands, len(cases))
	references := make([][]int8, len(cases))
	refErrs := make([]error, len(cases))
	pool.ParallelFor(len(cases), func(start, end int) {
		for i := start; i < end; i++ {
			operands[i] = cases[i].Generate()
			references[i], refErrs[i] = Reference(cases[i], operands[i])
		}
	})

	jobs := lo.FlatMap(lo.Range(len(cases)), func(ci int, _ int) []job {
		return lo.FlatMap(opts.Strategies, func(ip dot.InnerProduct, _ int) []job {
			return lo.Map(opts.PrePadding, func(pre bool, _ int) job {
				return job{caseIdx: ci, ip: ip, prePad: pre}
			})
		})
	})

	results := make([]Result, len(jobs))
	pool.ParallelForAtomic(len(jobs), func(i int) {
		j := jobs[i]
		results[i] = runJob(cases[j.caseIdx], operands[j.caseIdx], references[j.caseIdx], refErrs[j.caseIdx], j, opts.Repeat)
	})
	return results
}

// ValidateCases checks the shapes and parameters of every case on the pool.
// The returned error joins one error per invalid case.
func ValidateCases(pool *workerpool.Pool, cases []Case) error {
	return pool.ParallelForAtomicErr(len(cases), func(i int) error {
		c := cases[i]
		if err := conv.Validate(c.In, c.Filter, c.Out(), c.Params); err != nil {
			return fmt.Errorf("conformance: case %d (%s): %w", i, c.Name, err)
		}
		return nil
	})
}

// Reference computes the reference output of a case.
func Reference(c Case, op Operands) ([]int8, error) {
	out := make([]int8, c.Out().Size())
	if err := conv.ConvolveReference(c.In, op.Input, c.Filter, op.Filter, op.Bias, c.Out(), out, c.Params, op.Quant); err != nil {
		return nil, err
	}
	return out, nil
}

// RunCase runs one case with one configuration, outside any pool.
func RunCase(c Case, ip dot.InnerProduct, prePad bool, repeat int) Result {
	op := c.Generate()
	want, refErr := Reference(c, op)
	return runJob(c, op, want, refErr, job{ip: ip, prePad: prePad}, max(repeat, 1))
}

// runJob runs one configuration. refErr is the error the reference
// returned for the case, if any.
func runJob(c Case, op Operands, want []int8, refErr error, j job, repeat int) Result {
	r := Result{Case: c, Strategy: j.ip.Name(), PrePadding: j.prePad}

	s, err := conv.Prepare(c.In, c.Filter, c.Out(), c.Params, conv.WithInnerProduct(j.ip), conv.WithPrePadding(j.prePad))
	if err != nil {
		r.Err = err
		return r
	}
	r.Variant = s.Variant()
	if err := s.RegisterScratch(make([]byte, s.ScratchSize())); err != nil {
		r.Err = err
		return r
	}
	if refErr != nil {
		r.Err = fmt.Errorf("conformance: %s: reference: %w", c.Name, refErr)
		return r
	}

	got := make([]int8, len(want))
	start := time.Now()
	for range repeat {
		if err := s.Convolve(op.Input, op.Filter, op.Bias, got, op.Quant); err != nil {
			r.Err = err
			return r
		}
	}
	r.Kernel = time.Since(start) / time.Duration(repeat)

	scratch := make([]int8, len(want))
	start = time.Now()
	for range repeat {
		if err := conv.ConvolveReference(c.In, op.Input, c.Filter, op.Filter, op.Bias, c.Out(), scratch, c.Params, op.Quant); err != nil {
			r.Err = fmt.Errorf("conformance: %s: reference: %w", c.Name, err)
			return r
		}
	}
	r.Reference = time.Since(start) / time.Duration(repeat)

	r.Mismatches = lo.CountBy(lo.Range(len(want)), func(i int) bool {
		return got[i] != want[i]
	})
	return r
}

// Summary aggregates a sweep.
type Summary struct {
	Total     int
	Failed    int
	ByVariant map[conv.Variant]int

	Kernel    time.Duration
	Reference time.Duration
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	s.Failed = lo.CountBy(results, func(r Result) bool {
		return !r.Passed()
	})
	s.ByVariant = lo.CountValuesBy(results, func(r Result) conv.Variant {
		return r.Variant
	})
	s.Kernel = lo.SumBy(results, func(r Result) time.Duration {
		return r.Kernel
	})
	s.Reference = lo.SumBy(results, func(r Result) time.Duration {
		return r.Reference
	})
	return s
}

// Speedup returns total reference time over total kernel time.
func (s Summary) Speedup() float64 {
	if s.Kernel == 0 {
		return 0
	}
	return float64(s.Reference) / float64(s.Kernel)
}

// Failures returns the results that did not pass.
func Failures(results []Result) []Result {
	return lo.Filter(results, func(r Result, _ int) bool {
		return !r.Passed()
	})
}
