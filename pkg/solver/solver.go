package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/core"
)

// Status is the outcome of a solve.
type Status int

// enumeration of Status
const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusUndetermined
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	default:
		return "Undetermined"
	}
}

// Strategy is an enumeration of the algorithms a Solver can use
type Strategy int

// enumeration of Strategy
const (
	BranchAndBound Strategy = iota
	Enumeration
)

func (s Strategy) String() string {
	switch s {
	case BranchAndBound:
		return config.StrategyBranchAndBound
	case Enumeration:
		return config.StrategyEnumeration
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps a configured strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", config.StrategyBranchAndBound:
		return BranchAndBound, nil
	case config.StrategyEnumeration:
		return Enumeration, nil
	default:
		return 0, core.NewConfigurationError("unsupported solver strategy %q", name)
	}
}

// Stats describes the work a solve performed.
type Stats struct {
	Nodes            int
	Relaxations      int
	NumericFailures  int
	CombinationsSeen int
	Elapsed          time.Duration
}

// Result is the outcome of a solve. Only an Optimal result carries a
// Selection and a meaningful TotalCost; otherwise Selection is empty and
// TotalCost is NaN.
type Result struct {
	Status    Status
	Selection core.Selection
	TotalCost float64
	Stats     Stats
}

// IsOptimal reports whether the result carries a usable selection.
func (r *Result) IsOptimal() bool {
	return r != nil && r.Status == StatusOptimal
}

// Solver selects an integer quantity in [0, maxUnitsPerFood] for every food,
// minimizing total price subject to lower[n] <= intake[n] <= upper[n].
type Solver interface {
	// Solve never mutates foods or bounds. It returns an error only for invalid
	// arguments or when ctx is done; solver statuses are reported in Result.
	Solve(ctx context.Context, foods []core.FoodItem, bounds core.BoundSet, maxUnitsPerFood int) (*Result, error)
}

// NewSolver is a factory that creates a new Solver based on the provided strategy.
// A nil spec uses defaults.
func NewSolver(strategy Strategy, spec *config.SolverSpec) (Solver, error) {
	if spec == nil {
		spec = config.DefaultSolverSpec()
	} else {
		s := *spec
		s.SetDefaults()
		spec = &s
	}
	switch strategy {
	case BranchAndBound:
		return NewBranchAndBoundSolver(spec), nil
	case Enumeration:
		return NewEnumerationSolver(spec), nil
	default:
		return nil, core.NewConfigurationError("unsupported solver strategy: %v", strategy)
	}
}

// NewSolverFromSpec creates the Solver named by spec.Strategy.
func NewSolverFromSpec(spec *config.SolverSpec) (Solver, error) {
	name := ""
	if spec != nil {
		name = spec.Strategy
	}
	strategy, err := ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	return NewSolver(strategy, spec)
}

func unsolved(status Status, stats Stats) *Result {
	return &Result{
		Status:    status,
		Selection: core.Selection{},
		TotalCost: math.NaN(),
		Stats:     stats,
	}
}

func validateArguments(foods []core.FoodItem, bounds core.BoundSet, maxUnitsPerFood int) error {
	if maxUnitsPerFood < 0 {
		return core.NewConfigurationError("max units per food must be >= 0, got %d", maxUnitsPerFood)
	}
	if err := bounds.Lower.CheckSchema(bounds.Upper); err != nil {
		return err
	}
	nutrients := bounds.Nutrients()
	for i := range foods {
		if err := foods[i].Validate(); err != nil {
			return err
		}
		if !foods[i].Content.Nutrients.Equal(nutrients) {
			return core.NewSchemaError("food %q nutrient columns do not match the bounds", foods[i].Name)
		}
	}
	return nil
}
