package solver

import (
	"context"
	"math"
	"time"

	"github.com/go-logr/logr"

	"github.com/dietopt/diet-optimizer/internal/logging"
	"github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/core"
)

// EnumerationSolver visits every quantity combination. It is exact and only
// usable on small catalogs; it refuses search spaces above MaxCombinations.
type EnumerationSolver struct {
	spec *config.SolverSpec
}

// NewEnumerationSolver creates an EnumerationSolver. spec must have defaults applied.
func NewEnumerationSolver(spec *config.SolverSpec) *EnumerationSolver {
	return &EnumerationSolver{spec: spec}
}

// ctxCheckInterval is how many combinations are visited between context checks.
const ctxCheckInterval = 4096

// Solve implements Solver.
func (s *EnumerationSolver) Solve(
	ctx context.Context,
	foods []core.FoodItem,
	bounds core.BoundSet,
	maxUnitsPerFood int,
) (*Result, error) {
	logger := logr.FromContextOrDiscard(ctx)
	start := time.Now()

	if err := validateArguments(foods, bounds, maxUnitsPerFood); err != nil {
		return nil, err
	}
	space, ok := searchSpace(len(foods), maxUnitsPerFood, s.spec.MaxCombinations)
	if !ok {
		return nil, core.NewConfigurationError("enumeration over %d foods with cap %d exceeds %d combinations",
			len(foods), maxUnitsPerFood, s.spec.MaxCombinations)
	}
	logger.V(logging.DEBUG).Info("Enumerating quantity combinations", "foods", len(foods), "combinations", space)

	p := newProblem(foods, bounds, maxUnitsPerFood, s.spec.FeasibilityTolerance)
	stats := Stats{}
	x := make([]int, p.n)
	intake := make([]float64, p.m)

	var (
		best     = make([]int, p.n)
		bestCost = math.Inf(1)
		found    bool
	)
	for {
		stats.CombinationsSeen++
		if stats.CombinationsSeen%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if p.within(intake) {
			if cost := p.objective(x); cost < bestCost {
				copy(best, x)
				bestCost, found = cost, true
			}
		}
		if !p.next(x, intake) {
			break
		}
	}

	stats.Elapsed = time.Since(start)
	if !found {
		return unsolved(StatusInfeasible, stats), nil
	}
	selection, err := p.selection(best)
	if err != nil {
		return nil, err
	}
	return &Result{Status: StatusOptimal, Selection: selection, TotalCost: bestCost, Stats: stats}, nil
}

// within reports whether an intake vector lies inside the nutrient bounds.
func (p *problem) within(intake []float64) bool {
	for i, v := range intake {
		if v < p.lower[i]-p.slack(p.lower[i]) || v > p.upper[i]+p.slack(p.upper[i]) {
			return false
		}
	}
	return true
}

// next advances x like an odometer, keeping intake in sync. It returns false
// once every combination has been visited.
func (p *problem) next(x []int, intake []float64) bool {
	for j := range x {
		if x[j] < p.cap {
			x[j]++
			for i := range intake {
				intake[i] += p.a[i][j]
			}
			return true
		}
		for i := range intake {
			intake[i] -= p.a[i][j] * float64(x[j])
		}
		x[j] = 0
	}
	return false
}

// searchSpace returns (cap+1)^n if it does not exceed limit.
func searchSpace(n, maxUnits, limit int) (int, bool) {
	space := 1
	for i := 0; i < n; i++ {
		space *= maxUnits + 1
		if space > limit {
			return 0, false
		}
	}
	return space, true
}
