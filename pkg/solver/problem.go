package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/dietopt/diet-optimizer/pkg/core"
)

// problem is the dense integer program: minimize cost·x subject to
// lower <= A x <= upper and 0 <= x <= cap, x integer.
type problem struct {
	foods []core.FoodItem
	// n foods, m nutrients
	n, m  int
	cost  []float64
	a     [][]float64 // a[i][j] is the amount of nutrient i in one unit of food j
	lower []float64
	upper []float64
	cap   int
	tol   float64
}

func newProblem(foods []core.FoodItem, bounds core.BoundSet, maxUnits int, tol float64) *problem {
	n, m := len(foods), bounds.Lower.Len()
	p := &problem{
		foods: foods,
		n:     n,
		m:     m,
		cost:  make([]float64, n),
		a:     make([][]float64, m),
		lower: append([]float64(nil), bounds.Lower.Values...),
		upper: append([]float64(nil), bounds.Upper.Values...),
		cap:   maxUnits,
		tol:   tol,
	}
	for j, f := range foods {
		p.cost[j] = f.Price
	}
	for i := 0; i < m; i++ {
		p.a[i] = make([]float64, n)
		for j, f := range foods {
			p.a[i][j] = f.Content.Values[i]
		}
	}
	return p
}

// slack is the absolute tolerance applied to a bound of the given magnitude.
func (p *problem) slack(bound float64) float64 {
	return p.tol * math.Max(1, math.Abs(bound))
}

// dominated reports whether a node bounded below by bound cannot improve on
// the incumbent cost.
func (p *problem) dominated(bound, incumbent float64) bool {
	if math.IsInf(incumbent, 1) {
		return false
	}
	return bound >= incumbent-p.slack(incumbent)
}

// feasible reports whether an integer point satisfies every nutrient bound.
func (p *problem) feasible(x []int) bool {
	fx := make([]float64, len(x))
	for j, v := range x {
		fx[j] = float64(v)
	}
	for i := 0; i < p.m; i++ {
		intake := floats.Dot(p.a[i], fx)
		if intake < p.lower[i]-p.slack(p.lower[i]) || intake > p.upper[i]+p.slack(p.upper[i]) {
			return false
		}
	}
	return true
}

func (p *problem) objective(x []int) float64 {
	var total float64
	for j, v := range x {
		total += p.cost[j] * float64(v)
	}
	return total
}

// selection converts an integer point into an owned Selection.
func (p *problem) selection(x []int) (core.Selection, error) {
	return core.NewSelection(p.foods, x)
}

// trivial handles the catalog without foods: the empty selection is optimal
// if it satisfies every bound, otherwise the problem is infeasible.
func (p *problem) trivial() (Status, []int) {
	if p.feasible(nil) {
		return StatusOptimal, []int{}
	}
	return StatusInfeasible, nil
}
