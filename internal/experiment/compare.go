package experiment

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/invpend/internal/config"
	"github.com/san-kum/invpend/internal/dynamo"
)

// Comparison is the outcome of one integrator on a shared configuration.
type Comparison struct {
	Integrator string
	Final      [4]float64
	// MaxDeviation is the largest state difference from the first
	// integrator at any sample.
	MaxDeviation float64
	Metrics      map[string]float64
	Elapsed      time.Duration
	Err          error
}

// Compare runs cfg once per integrator name, all runs in parallel. The first
// successful run in names order is the reference for MaxDeviation.
func Compare(ctx context.Context, cfg *config.Config, names []string) ([]Comparison, error) {
	out := make([]Comparison, len(names))
	trajectories := make([][]dynamo.State, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()
			out[idx], trajectories[idx] = runOne(ctx, cfg, name)
		}(i, name)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return out, err
	}

	var reference []dynamo.State
	for i := range out {
		if out[i].Err != nil {
			continue
		}
		if reference == nil {
			reference = trajectories[i]
			continue
		}
		out[i].MaxDeviation = maxDeviation(reference, trajectories[i])
	}
	return out, nil
}

func runOne(ctx context.Context, cfg *config.Config, name string) (Comparison, []dynamo.State) {
	c := *cfg
	c.Integrator = name
	cmp := Comparison{Integrator: name}

	exp, err := New(&c)
	if err != nil {
		cmp.Err = err
		return cmp, nil
	}

	start := time.Now()
	result, err := exp.Run(ctx)
	cmp.Elapsed = time.Since(start)
	if err != nil {
		cmp.Err = err
		return cmp, nil
	}

	cmp.Final = exp.Plant().FullState()
	cmp.Metrics = result.Metrics

	return cmp, result.States
}

func maxDeviation(a, b []dynamo.State) float64 {
	worst := 0.0
	for i := range min(len(a), len(b)) {
		worst = max(worst, a[i].MaxDiff(b[i]))
	}
	return worst
}
