// Package config provides the parameter specs of the diet optimization engine.
//
// Configuration Types:
//
//   - OptimizerSpec: rates, per-food unit cap, overrides and solver settings
//   - RateSpec: lower/upper multipliers applied to the requirement baseline
//   - Overrides: per-nutrient absolute bounds replacing rate-derived ones
//   - SolverSpec: solver strategy and search limits
//
// Every parameter is threaded explicitly through the pipeline; the package
// holds no process-wide mutable defaults. DefaultOptimizerSpec returns a fresh
// value on every call.
//
// Example usage:
//
//	spec := config.DefaultOptimizerSpec()
//	spec.Rates = config.RateSpec{Lower: 0.5, Upper: 2.5}
//	if err := spec.Validate(); err != nil {
//	    return err // *core.ConfigurationError
//	}
//
// Configuration Validation:
//
// All values are validated before solving:
//   - Numeric ranges (e.g., 0 <= lower rate <= upper rate)
//   - Cross-field constraints (e.g., override lower <= override upper)
//   - Enumerations (e.g., solver strategy)
//
// Field errors are collected with k8s.io/apimachinery field paths and returned
// as a single aggregate wrapped in *core.ConfigurationError.
package config
