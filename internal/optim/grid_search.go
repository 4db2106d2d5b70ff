// Package optim searches parameter grids for the best run metric.
package optim

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/invpend/internal/config"
	"github.com/san-kum/invpend/internal/experiment"
)

// Factory builds the experiment for one grid point.
type Factory func(point map[string]float64) (*experiment.Experiment, error)

// GridSearch runs one experiment per point of the Cartesian product of its
// ranges and keeps the point with the best metric value.
type GridSearch struct {
	names  []string
	ranges [][]float64
	// Maximize flips the search for metrics where larger is better.
	Maximize bool
}

func NewGridSearch(names []string, ranges [][]float64) *GridSearch {
	return &GridSearch{names: names, ranges: ranges}
}

// Search returns the grid point with the best value of metric. Points whose
// experiment cannot be built, fails to run, or lacks the metric are skipped.
func (g *GridSearch) Search(ctx context.Context, build Factory, metric string) (map[string]float64, float64, error) {
	if len(g.names) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%d parameters but %d ranges", len(g.names), len(g.ranges))
	}

	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var winner map[string]float64

	err := g.each(ctx, func(point map[string]float64) {
		val, ok := evaluate(ctx, build, point, metric)
		if ok && g.better(val, best) {
			best, winner = val, maps.Clone(point)
		}
	})
	if err != nil {
		return winner, best, err
	}
	if winner == nil {
		return nil, best, fmt.Errorf("no grid point produced metric %q", metric)
	}
	return winner, best, nil
}

func (g *GridSearch) better(val, best float64) bool {
	if g.Maximize {
		return val > best
	}
	return val < best
}

// each calls fn for every grid point, the last name varying fastest. The map
// passed to fn is reused between calls.
func (g *GridSearch) each(ctx context.Context, fn func(map[string]float64)) error {
	for _, r := range g.ranges {
		if len(r) == 0 {
			return nil
		}
	}

	idx := make([]int, len(g.ranges))
	point := make(map[string]float64, len(g.names))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, name := range g.names {
			point[name] = g.ranges[i][idx[i]]
		}
		fn(point)

		i := len(idx) - 1
		for ; i >= 0; i-- {
			if idx[i]++; idx[i] < len(g.ranges[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return nil
		}
	}
}

func evaluate(ctx context.Context, build Factory, point map[string]float64, metric string) (float64, bool) {
	exp, err := build(point)
	if err != nil {
		return 0, false
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, false
	}
	val, ok := result.Metrics[metric]
	return val, ok && !math.IsNaN(val)
}

// GainScales returns a factory for cfg that multiplies gain i by the grid
// value named GainName(i).
func GainScales(cfg *config.Config) Factory {
	return func(point map[string]float64) (*experiment.Experiment, error) {
		c := *cfg
		for i := range c.Gains {
			if s, ok := point[GainName(i)]; ok {
				c.Gains[i] *= s
			}
		}
		return experiment.New(&c)
	}
}

func GainName(i int) string { return fmt.Sprintf("k%d", i) }
