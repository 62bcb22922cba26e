// Package optimizer implements the diet optimization pipeline.
//
// The optimizer package orchestrates one run end to end: it validates the
// catalog and requirement snapshot, derives bounds, invokes the solver and
// aggregates the solved selection into a contribution table.
//
// Architecture:
//
// The optimizer follows a strict sequential pipeline pattern:
//
//	Catalog + Requirement → Bound Builder → Solver → Contribution Aggregator → Reporting
//	     (collector)          (bounds)      (solver)      (contribution)        (reporting)
//
// The optimizer sits in the middle, orchestrating these components.
//
// Example usage:
//
//	opt := optimizer.NewOptimizer(optimizer.WithRecorder(recorder))
//
//	resp, err := opt.Run(ctx, optimizer.Request{
//	    Requirement: snapshot.Requirement,
//	    Catalog:     snapshot.Catalog,
//	    Spec:        *config.DefaultOptimizerSpec(),
//	})
//	if err != nil {
//	    log.Error(err, "optimization failed")
//	    return err
//	}
//	if resp.Status != solver.StatusOptimal {
//	    log.Info("no feasible combination; relax constraints")
//	    return nil
//	}
//
//	log.Info("optimization complete",
//	    "totalCost", resp.TotalCost,
//	    "selectedFoods", resp.Selection.Len())
//
// Optimization Flow:
//
//  1. Validate Inputs
//     - Catalog nutrient columns match the requirement (SchemaError)
//     - Rates, cap and overrides are consistent (ConfigurationError)
//
//  2. Build Bounds
//     - Scale the requirement by the lower and upper rates
//     - Apply per-nutrient overrides
//
//  3. Invoke Solver
//     - Minimize total price with integer quantities under the global cap
//     - Branch on the returned status
//
//  4. Aggregate
//     - Per-food contributions, totals and requirement-relative shares
//
// Error Handling:
//
//   - Configuration and schema errors → returned before any solve
//   - Infeasible → Response with Status Infeasible, nil error
//   - Unbounded / Undetermined → *UndeterminedError (matches ErrUndetermined)
//   - Context cancellation → ctx.Err(), the in-flight solve is abandoned
//
// No state is shared between runs: each Request carries its own snapshot and
// parameters, and each Response is freshly built.
package optimizer
