// Package bench measures a top-level operation under a replay transport
// substitution: fixed worker, value, and warm-up counts, no environment or
// persisted state beyond the fixture directory the transport reads.
package bench

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// Options fixes the harness invocation parameters. Zero values fall back to
// the conventional 5 workers, 10 values, 1 warm-up.
type Options struct {
	Workers int
	Values  int
	Warmups int
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 5
	}
	if o.Values <= 0 {
		o.Values = 10
	}
	if o.Warmups < 0 {
		o.Warmups = 1
	}
	return o
}

// Result holds the measured samples, sorted ascending.
type Result struct {
	Samples []time.Duration
}

// Run executes op Workers times in parallel, each worker performing its
// warm-up runs unmeasured followed by its measured values. The first error
// aborts the harness.
func Run(ctx context.Context, opts Options, op func(ctx context.Context) error) (*Result, error) {
	opts = opts.withDefaults()

	type workerResult struct {
		samples []time.Duration
		err     error
	}
	results := make([]workerResult, opts.Workers)

	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			samples := make([]time.Duration, 0, opts.Values)
			for i := 0; i < opts.Warmups+opts.Values; i++ {
				if err := ctx.Err(); err != nil {
					results[w].err = err
					return
				}
				start := time.Now()
				if err := op(ctx); err != nil {
					results[w].err = fmt.Errorf("worker %d run %d: %w", w, i, err)
					return
				}
				if i >= opts.Warmups {
					samples = append(samples, time.Since(start))
				}
			}
			results[w].samples = samples
		}(w)
	}
	wg.Wait()

	res := &Result{Samples: make([]time.Duration, 0, opts.Workers*opts.Values)}
	for _, wr := range results {
		if wr.err != nil {
			return nil, wr.err
		}
		res.Samples = append(res.Samples, wr.samples...)
	}
	sort.Slice(res.Samples, func(i, j int) bool { return res.Samples[i] < res.Samples[j] })
	return res, nil
}

// Min returns the fastest sample.
func (r *Result) Min() time.Duration {
	if len(r.Samples) == 0 {
		return 0
	}
	return r.Samples[0]
}

// Max returns the slowest sample.
func (r *Result) Max() time.Duration {
	if len(r.Samples) == 0 {
		return 0
	}
	return r.Samples[len(r.Samples)-1]
}

// Mean returns the arithmetic mean of all samples.
func (r *Result) Mean() time.Duration {
	if len(r.Samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, s := range r.Samples {
		total += s
	}
	return total / time.Duration(len(r.Samples))
}

// Median returns the middle sample.
func (r *Result) Median() time.Duration {
	n := len(r.Samples)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return r.Samples[n/2]
	}
	return (r.Samples[n/2-1] + r.Samples[n/2]) / 2
}

// StdDev returns the population standard deviation of the samples.
func (r *Result) StdDev() time.Duration {
	n := len(r.Samples)
	if n == 0 {
		return 0
	}
	mean := float64(r.Mean())
	var sum float64
	for _, s := range r.Samples {
		d := float64(s) - mean
		sum += d * d
	}
	return time.Duration(math.Sqrt(sum / float64(n)))
}
