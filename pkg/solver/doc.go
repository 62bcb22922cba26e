// Package solver implements the integer program behind the diet optimizer.
//
// Given an ordered food list, a BoundSet and a global per-food unit cap, the
// solver picks an integer quantity x_j in [0, cap] for every food so that
//
//	minimize    sum_j price_j * x_j
//	subject to  lower_n <= sum_j content_jn * x_j <= upper_n   for every nutrient n
//
// All nutrient bounds are hard constraints.
//
// Key Components:
//
//   - Solver: strategy interface, created with NewSolver / NewSolverFromSpec
//   - BranchAndBoundSolver: depth-first branch and bound over LP relaxations
//     solved by gonum's simplex (gonum.org/v1/gonum/optimize/convex/lp)
//   - EnumerationSolver: exhaustive search for small catalogs, used to
//     cross-check branch and bound
//
// Status Handling:
//
// Solve reports Optimal, Infeasible, Unbounded or Undetermined. Only Optimal
// carries a Selection; every other status carries an empty Selection and a NaN
// total cost. Statuses are data, not errors: Solve returns an error only for
// invalid arguments (*core.ConfigurationError, *core.SchemaError) or when the
// context is cancelled, in which case the in-flight search is abandoned and no
// partial result is returned.
//
// Example usage:
//
//	s, err := solver.NewSolver(solver.BranchAndBound, nil)
//	if err != nil {
//	    return err
//	}
//	result, err := s.Solve(ctx, catalog.Foods, bounds, 8)
//	if err != nil {
//	    return err
//	}
//	if result.Status != solver.StatusOptimal {
//	    log.Info("no feasible combination; relax constraints", "status", result.Status)
//	    return nil
//	}
//
// When several selections share the optimal cost, which one is returned is
// strategy-dependent; only the objective value and feasibility are guaranteed.
package solver
