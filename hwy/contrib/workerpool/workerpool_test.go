// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)
	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := range n {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForAtomic(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	var visits [100]atomic.Int32
	pool.ParallelForAtomic(n, func(i int) {
		visits[i].Add(1)
	})

	for i := range n {
		if got := visits[i].Load(); got != 1 {
			t.Errorf("index %d visited %d times, want 1", i, got)
		}
	}
}

func TestParallelForAtomicErr(t *testing.T) {
	pool := New(3)
	defer pool.Close()

	errOdd := errors.New("odd")
	var ran atomic.Int32
	err := pool.ParallelForAtomicErr(10, func(i int) error {
		ran.Add(1)
		if i%2 == 1 {
			return fmt.Errorf("case %d: %w", i, errOdd)
		}
		return nil
	})
	if ran.Load() != 10 {
		t.Errorf("ran %d tasks, want 10", ran.Load())
	}
	if !errors.Is(err, errOdd) {
		t.Fatalf("err = %v, want wrapped errOdd", err)
	}
	want := "case 1: odd\ncase 3: odd\ncase 5: odd\ncase 7: odd\ncase 9: odd"
	if err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}

	if err := pool.ParallelForAtomicErr(5, func(int) error { return nil }); err != nil {
		t.Errorf("all-success err = %v, want nil", err)
	}
	if err := pool.ParallelForAtomicErr(0, func(int) error { return errOdd }); err != nil {
		t.Errorf("n=0 err = %v, want nil", err)
	}
}

func TestParallelForSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	// n smaller than workers
	n := 3
	var count atomic.Int32
	pool.ParallelFor(n, func(start, end int) {
		count.Add(int32(end - start))
	})

	if count.Load() != int32(n) {
		t.Errorf("count = %d, want %d", count.Load(), n)
	}
}

func TestParallelForZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var called bool
	pool.ParallelFor(0, func(start, end int) {
		called = true
	})
	pool.ParallelForAtomic(0, func(int) {
		called = true
	})

	if called {
		t.Error("n=0 should not call fn")
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close() // Should not panic
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()

	n := 100
	results := make([]int, n)

	// Runs sequentially on the caller.
	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})
	pool.ParallelForAtomic(n, func(i int) {
		results[i]++
	})

	for i := range n {
		if results[i] != i*2+1 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2+1)
		}
	}
}

func BenchmarkParallelFor(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	n := 1000
	for b.Loop() {
		pool.ParallelFor(n, func(start, end int) {
			for j := start; j < end; j++ {
				_ = j * j
			}
		})
	}
}

func BenchmarkParallelForAtomic(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	n := 1000
	for b.Loop() {
		pool.ParallelForAtomic(n, func(i int) {
			_ = i * i
		})
	}
}
