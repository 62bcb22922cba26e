package config

import (
	"math"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/dietopt/diet-optimizer/pkg/core"
)

// Optimizer defaults.
const (
	DefaultLowerRate       = 0.6
	DefaultUpperRate       = 3.0
	DefaultMaxUnitsPerFood = 8
)

// Solver strategy names.
const (
	StrategyBranchAndBound = "BranchAndBound"
	StrategyEnumeration    = "Enumeration"
)

// Solver defaults.
const (
	DefaultStrategy             = StrategyBranchAndBound
	DefaultMaxNodes             = 200000
	DefaultMaxCombinations      = 5000000
	DefaultIntegralityTolerance = 1e-6
	DefaultFeasibilityTolerance = 1e-7
)

// RateSpec holds the multipliers applied to the requirement baseline.
type RateSpec struct {
	Lower float64 `yaml:"lower" json:"lower" mapstructure:"lower"`
	Upper float64 `yaml:"upper" json:"upper" mapstructure:"upper"`
}

// ValidateAmount rejects NaN, infinite and negative values.
func ValidateAmount(path *field.Path, value float64) *field.Error {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		return field.Invalid(path, value, "must be a finite number")
	case value < 0:
		return field.Invalid(path, value, "must be >= 0")
	}
	return nil
}

// Validate requires finite rates with 0 <= Lower <= Upper.
func (r RateSpec) Validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	if err := ValidateAmount(path.Child("lower"), r.Lower); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateAmount(path.Child("upper"), r.Upper); err != nil {
		errs = append(errs, err)
	}
	if r.Lower > r.Upper {
		errs = append(errs, field.Invalid(path.Child("lower"), r.Lower, "must not exceed upper rate"))
	}
	return errs
}

// SolverSpec selects and tunes the integer program solver.
type SolverSpec struct {
	// Strategy is BranchAndBound or Enumeration
	Strategy string `yaml:"strategy" json:"strategy" mapstructure:"strategy"`

	// MaxNodes caps the branch-and-bound tree; hitting it yields an undetermined status
	MaxNodes int `yaml:"maxNodes" json:"maxNodes" mapstructure:"maxNodes"`

	// MaxCombinations caps the enumeration search space
	MaxCombinations int `yaml:"maxCombinations" json:"maxCombinations" mapstructure:"maxCombinations"`

	IntegralityTolerance float64 `yaml:"integralityTolerance" json:"integralityTolerance" mapstructure:"integralityTolerance"`
	FeasibilityTolerance float64 `yaml:"feasibilityTolerance" json:"feasibilityTolerance" mapstructure:"feasibilityTolerance"`
}

// DefaultSolverSpec returns a spec with every field at its default.
func DefaultSolverSpec() *SolverSpec {
	spec := &SolverSpec{}
	spec.SetDefaults()
	return spec
}

// SetDefaults fills zero-valued fields.
func (s *SolverSpec) SetDefaults() {
	if s.Strategy == "" {
		s.Strategy = DefaultStrategy
	}
	if s.MaxNodes == 0 {
		s.MaxNodes = DefaultMaxNodes
	}
	if s.MaxCombinations == 0 {
		s.MaxCombinations = DefaultMaxCombinations
	}
	if s.IntegralityTolerance == 0 {
		s.IntegralityTolerance = DefaultIntegralityTolerance
	}
	if s.FeasibilityTolerance == 0 {
		s.FeasibilityTolerance = DefaultFeasibilityTolerance
	}
}

// Validate checks the solver spec.
func (s *SolverSpec) Validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	switch s.Strategy {
	case StrategyBranchAndBound, StrategyEnumeration:
	default:
		errs = append(errs, field.NotSupported(path.Child("strategy"), s.Strategy,
			[]string{StrategyBranchAndBound, StrategyEnumeration}))
	}
	if s.MaxNodes <= 0 {
		errs = append(errs, field.Invalid(path.Child("maxNodes"), s.MaxNodes, "must be > 0"))
	}
	if s.MaxCombinations <= 0 {
		errs = append(errs, field.Invalid(path.Child("maxCombinations"), s.MaxCombinations, "must be > 0"))
	}
	if s.IntegralityTolerance <= 0 || s.IntegralityTolerance >= 0.5 {
		errs = append(errs, field.Invalid(path.Child("integralityTolerance"), s.IntegralityTolerance, "must be in (0, 0.5)"))
	}
	if s.FeasibilityTolerance <= 0 {
		errs = append(errs, field.Invalid(path.Child("feasibilityTolerance"), s.FeasibilityTolerance, "must be > 0"))
	}
	return errs
}

// OptimizerSpec is the full parameter set of one optimization run.
type OptimizerSpec struct {
	Rates           RateSpec   `yaml:"rates" json:"rates" mapstructure:"rates"`
	MaxUnitsPerFood int        `yaml:"maxUnitsPerFood" json:"maxUnitsPerFood" mapstructure:"maxUnitsPerFood"`
	Overrides       Overrides  `yaml:"-" json:"overrides,omitempty" mapstructure:"-"`
	Solver          SolverSpec `yaml:"solver" json:"solver" mapstructure:"solver"`
}

// DefaultOptimizerSpec returns the default rates and cap with the reference override policy.
func DefaultOptimizerSpec() *OptimizerSpec {
	return &OptimizerSpec{
		Rates:           RateSpec{Lower: DefaultLowerRate, Upper: DefaultUpperRate},
		MaxUnitsPerFood: DefaultMaxUnitsPerFood,
		Overrides:       ReferenceOverrides(),
		Solver:          *DefaultSolverSpec(),
	}
}

// Validate aggregates every field error into a single *core.ConfigurationError.
func (s *OptimizerSpec) Validate() error {
	root := field.NewPath("optimizer")
	errs := s.Rates.Validate(root.Child("rates"))
	if s.MaxUnitsPerFood < 0 {
		errs = append(errs, field.Invalid(root.Child("maxUnitsPerFood"), s.MaxUnitsPerFood, "must be >= 0"))
	}
	errs = append(errs, s.Overrides.Validate(root.Child("overrides"))...)
	errs = append(errs, s.Solver.Validate(root.Child("solver"))...)
	if len(errs) == 0 {
		return nil
	}
	return core.WrapConfigurationError(errs.ToAggregate(), "invalid optimizer spec")
}
