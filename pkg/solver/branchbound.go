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

// BranchAndBoundSolver solves the integer program by depth-first branch and
// bound over LP relaxations.
type BranchAndBoundSolver struct {
	spec *config.SolverSpec
}

// NewBranchAndBoundSolver creates a BranchAndBoundSolver. spec must have defaults applied.
func NewBranchAndBoundSolver(spec *config.SolverSpec) *BranchAndBoundSolver {
	return &BranchAndBoundSolver{spec: spec}
}

// node is a box lo <= x <= hi of the search tree, with the LP bound of its parent.
type node struct {
	lo, hi []int
	bound  float64
}

// Solve implements Solver.
func (s *BranchAndBoundSolver) Solve(
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
	p := newProblem(foods, bounds, maxUnitsPerFood, s.spec.FeasibilityTolerance)
	stats := Stats{}

	if p.n == 0 {
		status, x := p.trivial()
		stats.Elapsed = time.Since(start)
		if status != StatusOptimal {
			return unsolved(status, stats), nil
		}
		return s.optimal(p, x, stats)
	}

	root := node{lo: make([]int, p.n), hi: make([]int, p.n), bound: math.Inf(-1)}
	for j := range root.hi {
		root.hi[j] = maxUnitsPerFood
	}

	var (
		incumbent     []int
		incumbentCost = math.Inf(1)
		stack         = []node{root}
	)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			logger.V(logging.DEBUG).Info("Branch and bound abandoned", "nodes", stats.Nodes, "reason", err.Error())
			return nil, err
		}
		if stats.Nodes >= s.spec.MaxNodes {
			stats.Elapsed = time.Since(start)
			logger.Info("Branch and bound node limit reached", "maxNodes", s.spec.MaxNodes,
				"incumbentFound", incumbent != nil)
			return unsolved(StatusUndetermined, stats), nil
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stats.Nodes++

		if p.dominated(nd.bound, incumbentCost) {
			continue
		}

		if fixed(nd) {
			if p.feasible(nd.lo) {
				if cost := p.objective(nd.lo); cost < incumbentCost {
					incumbent, incumbentCost = append([]int(nil), nd.lo...), cost
				}
			}
			continue
		}

		stats.Relaxations++
		rel := p.relax(nd.lo, nd.hi)
		switch rel.status {
		case relaxInfeasible:
			continue
		case relaxUnbounded:
			stats.Elapsed = time.Since(start)
			logger.Info("LP relaxation is unbounded", "node", stats.Nodes)
			return unsolved(StatusUnbounded, stats), nil
		case relaxNumeric:
			stats.NumericFailures++
			logger.V(logging.DEBUG).Info("LP relaxation failed, splitting node without a bound",
				"node", stats.Nodes, "error", rel.err.Error())
			stack = append(stack, split(nd)...)
			continue
		}

		if p.dominated(rel.objective, incumbentCost) {
			continue
		}

		j, value := s.mostFractional(rel.x)
		if j < 0 {
			x := roundAll(rel.x)
			if p.feasible(x) {
				if cost := p.objective(x); cost < incumbentCost {
					incumbent, incumbentCost = x, cost
					logger.V(logging.TRACE).Info("New incumbent", "node", stats.Nodes, "cost", cost)
				}
				continue
			}
			// rounding drifted outside the bounds; keep exploring the box
			stack = append(stack, split(nd)...)
			continue
		}

		down := node{lo: nd.lo, hi: withValue(nd.hi, j, int(math.Floor(value))), bound: rel.objective}
		up := node{lo: withValue(nd.lo, j, int(math.Ceil(value))), hi: nd.hi, bound: rel.objective}
		// the child nearest the LP value is explored first, so it is pushed last
		if value-math.Floor(value) < 0.5 {
			stack = append(stack, up, down)
		} else {
			stack = append(stack, down, up)
		}
	}

	stats.Elapsed = time.Since(start)
	if incumbent == nil {
		logger.V(logging.DEBUG).Info("Branch and bound proved infeasibility", "nodes", stats.Nodes)
		return unsolved(StatusInfeasible, stats), nil
	}
	return s.optimal(p, incumbent, stats)
}

func (s *BranchAndBoundSolver) optimal(p *problem, x []int, stats Stats) (*Result, error) {
	selection, err := p.selection(x)
	if err != nil {
		return nil, err
	}
	return &Result{
		Status:    StatusOptimal,
		Selection: selection,
		TotalCost: p.objective(x),
		Stats:     stats,
	}, nil
}

// mostFractional returns the index and value of the variable farthest from
// an integer, or -1 if every value is integral within tolerance.
func (s *BranchAndBoundSolver) mostFractional(x []float64) (int, float64) {
	best, bestDist := -1, s.spec.IntegralityTolerance
	for j, v := range x {
		if dist := math.Abs(v - math.Round(v)); dist > bestDist {
			best, bestDist = j, dist
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, x[best]
}

func fixed(nd node) bool {
	for j := range nd.lo {
		if nd.lo[j] != nd.hi[j] {
			return false
		}
	}
	return true
}

// split halves the widest domain of the node. The children inherit the node's bound.
func split(nd node) []node {
	j, width := -1, 0
	for k := range nd.lo {
		if w := nd.hi[k] - nd.lo[k]; w > width {
			j, width = k, w
		}
	}
	if j < 0 {
		return nil
	}
	mid := nd.lo[j] + width/2
	return []node{
		{lo: withValue(nd.lo, j, mid+1), hi: nd.hi, bound: nd.bound},
		{lo: nd.lo, hi: withValue(nd.hi, j, mid), bound: nd.bound},
	}
}

func withValue(v []int, j, value int) []int {
	out := append([]int(nil), v...)
	out[j] = value
	return out
}

func roundAll(x []float64) []int {
	out := make([]int, len(x))
	for j, v := range x {
		out[j] = int(math.Round(v))
	}
	return out
}
