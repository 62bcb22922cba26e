package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// lpTolerance is handed to the simplex method.
const lpTolerance = 1e-10

type relaxStatus int

const (
	relaxOptimal relaxStatus = iota
	relaxInfeasible
	relaxUnbounded
	relaxNumeric
)

// relaxation is the LP solution of one branch-and-bound node.
type relaxation struct {
	status    relaxStatus
	objective float64
	x         []float64
	err       error
}

// relax solves the LP relaxation of p restricted to lo <= x <= hi.
//
// The node is shifted to y = x - lo and put in standard form for lp.Simplex:
//
//	y_j + s_j               = hi_j - lo_j    (one row per food)
//	a_i·y - t_i             = lower_i - a_i·lo
//	a_i·y + r_i             = upper_i - a_i·lo
//
// with every column non-negative. Nutrient rows that cannot bind inside the
// node's box are dropped, and rows that cannot be met at all short-circuit to
// infeasible without calling the simplex.
func (p *problem) relax(lo, hi []int) relaxation {
	minIntake := make([]float64, p.m)
	maxIntake := make([]float64, p.m)
	for i := 0; i < p.m; i++ {
		for j := 0; j < p.n; j++ {
			minIntake[i] += p.a[i][j] * float64(lo[j])
			maxIntake[i] += p.a[i][j] * float64(hi[j])
		}
	}

	var lowerRows, upperRows []int
	for i := 0; i < p.m; i++ {
		if maxIntake[i] < p.lower[i]-p.slack(p.lower[i]) || minIntake[i] > p.upper[i]+p.slack(p.upper[i]) {
			return relaxation{status: relaxInfeasible}
		}
		if p.lower[i]-minIntake[i] > 0 {
			lowerRows = append(lowerRows, i)
		}
		if maxIntake[i]-p.upper[i] > 0 {
			upperRows = append(upperRows, i)
		}
	}

	base := 0.0
	for j := 0; j < p.n; j++ {
		base += p.cost[j] * float64(lo[j])
	}

	if p.n == 0 {
		return relaxation{status: relaxOptimal, objective: base, x: []float64{}}
	}

	rows := p.n + len(lowerRows) + len(upperRows)
	cols := 2*p.n + len(lowerRows) + len(upperRows)
	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)
	copy(c, p.cost)

	for j := 0; j < p.n; j++ {
		A.Set(j, j, 1)
		A.Set(j, p.n+j, 1)
		b[j] = float64(hi[j] - lo[j])
	}
	row, col := p.n, 2*p.n
	for _, i := range lowerRows {
		for j := 0; j < p.n; j++ {
			A.Set(row, j, p.a[i][j])
		}
		A.Set(row, col, -1)
		b[row] = p.lower[i] - minIntake[i]
		row++
		col++
	}
	for _, i := range upperRows {
		for j := 0; j < p.n; j++ {
			A.Set(row, j, p.a[i][j])
		}
		A.Set(row, col, 1)
		b[row] = math.Max(0, p.upper[i]-minIntake[i])
		row++
		col++
	}

	optF, optY, err := lp.Simplex(c, A, b, lpTolerance, nil)
	switch {
	case err == nil:
	case errors.Is(err, lp.ErrInfeasible):
		return relaxation{status: relaxInfeasible, err: err}
	case errors.Is(err, lp.ErrUnbounded):
		return relaxation{status: relaxUnbounded, err: err}
	default:
		return relaxation{status: relaxNumeric, err: err}
	}

	x := make([]float64, p.n)
	for j := 0; j < p.n; j++ {
		x[j] = float64(lo[j]) + math.Max(0, optY[j])
		if x[j] > float64(hi[j]) {
			x[j] = float64(hi[j])
		}
	}
	return relaxation{status: relaxOptimal, objective: base + optF, x: x}
}
