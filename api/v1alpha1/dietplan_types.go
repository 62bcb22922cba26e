package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Kind names.
const (
	KindDietPlan     = "DietPlan"
	KindDietPlanList = "DietPlanList"
)

// DietPlanSpec records the parameters a plan was computed with.
type DietPlanSpec struct {
	// Mode is Optimize for a solved plan or Evaluate for a caller-chosen selection.
	Mode string `json:"mode"`

	// Rates are the multipliers applied to the requirement baseline.
	Rates Rates `json:"rates"`

	// MaxUnitsPerFood is the per-food quantity cap.
	MaxUnitsPerFood int `json:"maxUnitsPerFood"`

	// Strategy is the solver strategy. Empty in Evaluate mode.
	// +optional
	Strategy string `json:"strategy,omitempty"`

	// Overrides lists the absolute nutrient bounds that replaced rate-derived ones.
	// +optional
	Overrides []NutrientOverride `json:"overrides,omitempty"`

	// Source identifies where the catalog and requirement were read from.
	// +optional
	Source CatalogSource `json:"source,omitempty"`
}

// Rates holds the lower and upper multipliers.
type Rates struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NutrientOverride is an absolute bound for one nutrient. A missing side keeps
// the rate-derived bound.
type NutrientOverride struct {
	Nutrient string `json:"nutrient"`
	// +optional
	Lower *float64 `json:"lower,omitempty"`
	// +optional
	Upper *float64 `json:"upper,omitempty"`
}

// CatalogSource identifies the input tables.
type CatalogSource struct {
	// Kind is the catalog source name, e.g. "csv".
	Kind string `json:"kind,omitempty"`
	// +optional
	Foods string `json:"foods,omitempty"`
	// +optional
	Requirement string `json:"requirement,omitempty"`
}

// DietPlanStatus is the computed plan.
type DietPlanStatus struct {
	// Result is the solver status: Optimal or Infeasible.
	Result string `json:"result"`

	// TotalCost is the summed price of the selection. Unset when there is no selection.
	// +optional
	TotalCost *float64 `json:"totalCost,omitempty"`

	// TotalWeight is the summed weight of the selection.
	TotalWeight float64 `json:"totalWeight"`

	// Items are the selected foods with their quantities, in catalog order.
	// +optional
	Items []PlanItem `json:"items,omitempty"`

	// Nutrients are the per-nutrient bounds, intake and ratios.
	// +optional
	Nutrients []NutrientStatus `json:"nutrients,omitempty"`

	// Solver describes the work the solve performed.
	// +optional
	Solver SolverStats `json:"solver,omitempty"`

	// LastRunTime is when the plan was computed.
	LastRunTime metav1.Time `json:"lastRunTime,omitempty"`

	// Conditions report whether the plan is feasible and within bounds.
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// PlanItem is one selected food.
type PlanItem struct {
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
	TotalWeight float64 `json:"totalWeight"`
}

// NutrientStatus is one row of the contribution table.
type NutrientStatus struct {
	Name  string  `json:"name"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`

	Intake         float64 `json:"intake"`
	LowerReference float64 `json:"lowerReference"`
	Requirement    float64 `json:"requirement"`

	// Ratios are rounded to two decimals.
	LowerReferenceRatio float64 `json:"lowerReferenceRatio"`
	RequirementRatio    float64 `json:"requirementRatio"`

	// Shares maps food name to its share of LowerReferenceRatio.
	// +optional
	Shares map[string]float64 `json:"shares,omitempty"`

	// RequirementShares maps food name to its share of RequirementRatio.
	// +optional
	RequirementShares map[string]float64 `json:"requirementShares,omitempty"`
}

// SolverStats summarizes a solve.
type SolverStats struct {
	Nodes         int   `json:"nodes,omitempty"`
	Relaxations   int   `json:"relaxations,omitempty"`
	Combinations  int   `json:"combinations,omitempty"`
	ElapsedMillis int64 `json:"elapsedMillis,omitempty"`
}

// DietPlan is a computed diet: the parameters it was solved with and the result.
type DietPlan struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   DietPlanSpec   `json:"spec,omitempty"`
	Status DietPlanStatus `json:"status,omitempty"`
}

// DietPlanList contains a list of DietPlan documents.
type DietPlanList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []DietPlan `json:"items"`
}

// Condition types for DietPlan
const (
	// TypeFeasible indicates whether some selection satisfies every bound
	TypeFeasible = "Feasible"
	// TypeWithinBounds indicates whether the reported selection satisfies every bound
	TypeWithinBounds = "WithinBounds"
)

// Condition reasons
const (
	// ReasonOptimalSelection indicates the solver proved an optimal selection
	ReasonOptimalSelection = "OptimalSelection"
	// ReasonNoFeasibleCombination indicates no combination meets the bounds; relax constraints
	ReasonNoFeasibleCombination = "NoFeasibleCombination"
	// ReasonAllNutrientsWithinBounds indicates every nutrient intake lies within its bounds
	ReasonAllNutrientsWithinBounds = "AllNutrientsWithinBounds"
	// ReasonNutrientsOutOfBounds indicates at least one nutrient intake lies outside its bounds
	ReasonNutrientsOutOfBounds = "NutrientsOutOfBounds"
)

// Plan modes
const (
	ModeOptimize = "Optimize"
	ModeEvaluate = "Evaluate"
)
