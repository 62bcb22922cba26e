package reporting

import (
	"encoding/json"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/dietopt/diet-optimizer/api/v1alpha1"
	"github.com/dietopt/diet-optimizer/internal/optimizer"
	"github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/core"
	"github.com/dietopt/diet-optimizer/pkg/solver"
)

// Output formats accepted by MarshalPlan.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// PlanOptions carries the run metadata a DietPlan records besides the result.
type PlanOptions struct {
	Name   string
	Spec   config.OptimizerSpec
	Source v1alpha1.CatalogSource
	Now    time.Time
}

func (o PlanOptions) base(mode string) *v1alpha1.DietPlan {
	now := o.Now
	if now.IsZero() {
		now = time.Now()
	}
	name := o.Name
	if name == "" {
		name = "dietplan-" + now.UTC().Format("20060102-150405")
	}
	plan := &v1alpha1.DietPlan{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.GroupVersion.String(),
			Kind:       v1alpha1.KindDietPlan,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			CreationTimestamp: metav1.NewTime(now),
		},
		Spec: v1alpha1.DietPlanSpec{
			Mode:            mode,
			Rates:           v1alpha1.Rates{Lower: o.Spec.Rates.Lower, Upper: o.Spec.Rates.Upper},
			MaxUnitsPerFood: o.Spec.MaxUnitsPerFood,
			Source:          o.Source,
		},
		Status: v1alpha1.DietPlanStatus{
			LastRunTime: metav1.NewTime(now),
		},
	}
	for _, nutrient := range o.Spec.Overrides.Names() {
		ov := o.Spec.Overrides[nutrient]
		plan.Spec.Overrides = append(plan.Spec.Overrides, v1alpha1.NutrientOverride{
			Nutrient: nutrient,
			Lower:    ov.Lower,
			Upper:    ov.Upper,
		})
	}
	return plan
}

// BuildDietPlan converts an optimizer response into a DietPlan document.
func BuildDietPlan(opts PlanOptions, resp *optimizer.Response) (*v1alpha1.DietPlan, error) {
	if resp == nil {
		return nil, fmt.Errorf("optimizer response is required")
	}
	plan := opts.base(v1alpha1.ModeOptimize)
	plan.Spec.Strategy = opts.Spec.Solver.Strategy
	plan.Status.Result = resp.Status.String()
	plan.Status.Solver = v1alpha1.SolverStats{
		Nodes:         resp.Stats.Nodes,
		Relaxations:   resp.Stats.Relaxations,
		Combinations:  resp.Stats.CombinationsSeen,
		ElapsedMillis: resp.Stats.Elapsed.Milliseconds(),
	}

	feasible := metav1.Condition{
		Type:               v1alpha1.TypeFeasible,
		LastTransitionTime: plan.Status.LastRunTime,
	}
	switch resp.Status {
	case solver.StatusOptimal:
		feasible.Status = metav1.ConditionTrue
		feasible.Reason = v1alpha1.ReasonOptimalSelection
		feasible.Message = fmt.Sprintf("optimal selection of %d foods", resp.Selection.Len())
		fillSelection(&plan.Status, resp.Selection, resp.TotalCost)
		if err := fillNutrients(&plan.Status, resp.Table, resp.Bounds); err != nil {
			return nil, err
		}
	case solver.StatusInfeasible:
		feasible.Status = metav1.ConditionFalse
		feasible.Reason = v1alpha1.ReasonNoFeasibleCombination
		feasible.Message = "no feasible combination; relax constraints"
	default:
		return nil, fmt.Errorf("cannot build a plan for solver status %s", resp.Status)
	}
	meta.SetStatusCondition(&plan.Status.Conditions, feasible)
	return plan, nil
}

// BuildEvaluationPlan converts an evaluation of a caller-chosen selection
// into a DietPlan document.
func BuildEvaluationPlan(opts PlanOptions, resp *optimizer.EvaluateResponse) (*v1alpha1.DietPlan, error) {
	if resp == nil {
		return nil, fmt.Errorf("evaluate response is required")
	}
	plan := opts.base(v1alpha1.ModeEvaluate)
	plan.Status.Result = "Evaluated"
	fillSelection(&plan.Status, resp.Selection, resp.TotalCost)
	if err := fillNutrients(&plan.Status, resp.Table, resp.Bounds); err != nil {
		return nil, err
	}

	within := metav1.Condition{
		Type:               v1alpha1.TypeWithinBounds,
		Status:             metav1.ConditionTrue,
		Reason:             v1alpha1.ReasonAllNutrientsWithinBounds,
		Message:            "every nutrient intake lies within its bounds",
		LastTransitionTime: plan.Status.LastRunTime,
	}
	if !resp.WithinBounds {
		within.Status = metav1.ConditionFalse
		within.Reason = v1alpha1.ReasonNutrientsOutOfBounds
		within.Message = fmt.Sprintf("out of bounds: %v", resp.Violations)
	}
	meta.SetStatusCondition(&plan.Status.Conditions, within)
	return plan, nil
}

func fillSelection(status *v1alpha1.DietPlanStatus, selection core.Selection, totalCost float64) {
	cost := totalCost
	status.TotalCost = &cost
	status.TotalWeight = selection.TotalWeight()
	for _, item := range selection.Items {
		status.Items = append(status.Items, v1alpha1.PlanItem{
			Name:        item.Food.Name,
			Category:    item.Food.Category,
			Quantity:    item.Quantity,
			UnitPrice:   item.Food.Price,
			TotalPrice:  item.TotalPrice(),
			TotalWeight: item.TotalWeight(),
		})
	}
}

func fillNutrients(status *v1alpha1.DietPlanStatus, table *core.ContributionTable, bounds core.BoundSet) error {
	if table == nil {
		return fmt.Errorf("contribution table is required")
	}
	if !table.Nutrients.Equal(bounds.Nutrients()) {
		return core.NewSchemaError("bounds and contribution table use different nutrient columns")
	}
	status.Nutrients = make([]v1alpha1.NutrientStatus, len(table.Nutrients))
	for n, name := range table.Nutrients {
		ns := v1alpha1.NutrientStatus{
			Name:                name,
			Lower:               bounds.Lower.Values[n],
			Upper:               bounds.Upper.Values[n],
			Intake:              table.Total.Values[n],
			LowerReference:      table.LowerReference.Values[n],
			Requirement:         table.Requirement.Values[n],
			LowerReferenceRatio: table.LowerReferenceRatio.Values[n],
			RequirementRatio:    table.RequirementRatio.Values[n],
		}
		if len(table.Foods) > 0 {
			ns.Shares = make(map[string]float64, len(table.Foods))
			ns.RequirementShares = make(map[string]float64, len(table.Foods))
			for i, food := range table.Foods {
				ns.Shares[food] = table.LowerReferenceShares[i].Values[n]
				ns.RequirementShares[food] = table.RequirementShares[i].Values[n]
			}
		}
		status.Nutrients[n] = ns
	}
	return nil
}

// MarshalPlan encodes a plan as indented JSON or as YAML.
func MarshalPlan(plan *v1alpha1.DietPlan, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(plan, "", "  ")
	case FormatYAML:
		return yaml.Marshal(plan)
	default:
		return nil, fmt.Errorf("unsupported plan format %q", format)
	}
}
