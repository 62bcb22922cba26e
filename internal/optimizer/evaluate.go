package optimizer

import (
	"context"
	"sort"

	"github.com/go-logr/logr"

	"github.com/dietopt/diet-optimizer/internal/contribution"
	"github.com/dietopt/diet-optimizer/internal/logging"
	"github.com/dietopt/diet-optimizer/pkg/core"
)

// EvaluateRequest aggregates a caller-chosen selection without solving.
// Quantities maps food identity to a non-negative quantity.
type EvaluateRequest struct {
	Request
	Quantities map[string]int
}

// EvaluateResponse describes a caller-chosen selection against the bounds.
type EvaluateResponse struct {
	Selection core.Selection
	TotalCost float64
	Table     *core.ContributionTable
	Bounds    core.BoundSet

	// WithinBounds reports whether the selection would satisfy every nutrient bound.
	WithinBounds bool
	// Violations lists the nutrients whose intake falls outside the bounds.
	Violations []string
}

// Evaluate builds bounds and the contribution table for a fixed selection.
// Quantities above the configured cap are allowed, they are reported as is.
func (o *Optimizer) Evaluate(ctx context.Context, req EvaluateRequest) (*EvaluateResponse, error) {
	logger := logr.FromContextOrDiscard(ctx)

	b, err := o.prepare(req.Request)
	if err != nil {
		return nil, err
	}

	unknown := make([]string, 0)
	for name := range req.Quantities {
		if _, ok := req.Catalog.Food(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, core.NewConfigurationError("unknown foods in selection: %v", unknown)
	}

	quantities := make([]int, len(req.Catalog.Foods))
	for i, food := range req.Catalog.Foods {
		quantities[i] = req.Quantities[food.Name]
	}
	selection, err := core.NewSelection(req.Catalog.Foods, quantities)
	if err != nil {
		return nil, err
	}

	table, err := contribution.Aggregate(selection, req.Requirement, req.Spec.Rates.Lower)
	if err != nil {
		return nil, err
	}

	var violations []string
	for n, name := range table.Nutrients {
		intake := table.Total.Values[n]
		if intake < b.Lower.Values[n] || intake > b.Upper.Values[n] {
			violations = append(violations, name)
		}
	}

	logger.V(logging.DEBUG).Info("Evaluated selection",
		"selectedFoods", selection.Len(),
		"totalCost", selection.TotalCost(),
		"violations", len(violations))

	return &EvaluateResponse{
		Selection:    selection,
		TotalCost:    selection.TotalCost(),
		Table:        table,
		Bounds:       b,
		WithinBounds: len(violations) == 0,
		Violations:   violations,
	}, nil
}
