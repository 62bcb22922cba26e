package reporting

import (
	"fmt"

	"github.com/dietopt/diet-optimizer/pkg/core"
)

// Chart titles.
const (
	ChartTitle      = "Optimization result"
	EvaluationTitle = "Selected foods"
	XAxisTitle      = "nutrient"
	YAxisTitle      = "ratio to reference amount"
)

// Threshold line colors.
const (
	ColorLowerRate   = "Red"
	ColorRequirement = "Black"
	ColorUpperRate   = "Blue"
)

// Baseline selects which share columns of a ContributionTable are stacked.
type Baseline string

const (
	// BaselineLowerReference stacks shares that sum to total / (requirement * lowerRate).
	BaselineLowerReference Baseline = "lower-reference"
	// BaselineRequirement stacks shares that sum to total / requirement.
	BaselineRequirement Baseline = "requirement"
)

// Series is one stacked bar series, a food, over the nutrient axis.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Threshold is a horizontal reference line.
type Threshold struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Dash  string  `json:"dash"`
}

// Chart is a stacked bar chart model: x-axis nutrients, one series per food,
// plus horizontal threshold lines. Renderers consume it as is.
type Chart struct {
	Title      string      `json:"title"`
	XAxisTitle string      `json:"xAxisTitle"`
	YAxisTitle string      `json:"yAxisTitle"`
	Baseline   Baseline    `json:"baseline"`
	Categories []string    `json:"categories"`
	Series     []Series    `json:"series"`
	Thresholds []Threshold `json:"thresholds"`
}

// BuildChart stacks the requirement shares of table under the lowerRate,
// 1.0 and upperRate threshold lines. A bar reaching 1.0 meets the requirement.
func BuildChart(table *core.ContributionTable, lowerRate, upperRate float64) (*Chart, error) {
	return BuildChartWithBaseline(table, BaselineRequirement, lowerRate, upperRate)
}

// BuildChartWithBaseline is BuildChart with an explicit share baseline.
// With BaselineLowerReference the threshold lines keep their values, so 1.0
// marks the lower reference rather than the requirement.
func BuildChartWithBaseline(table *core.ContributionTable, baseline Baseline, lowerRate, upperRate float64) (*Chart, error) {
	if table == nil {
		return nil, fmt.Errorf("contribution table is required")
	}
	var shares []core.NutrientVector
	switch baseline {
	case BaselineLowerReference:
		shares = table.LowerReferenceShares
	case BaselineRequirement:
		shares = table.RequirementShares
	default:
		return nil, fmt.Errorf("unknown chart baseline %q", baseline)
	}
	if len(shares) != len(table.Foods) {
		return nil, fmt.Errorf("table has %d foods but %d share columns", len(table.Foods), len(shares))
	}

	chart := &Chart{
		Title:      ChartTitle,
		XAxisTitle: XAxisTitle,
		YAxisTitle: YAxisTitle,
		Baseline:   baseline,
		Categories: append([]string(nil), table.Nutrients...),
		Series:     make([]Series, len(table.Foods)),
		Thresholds: Thresholds(lowerRate, upperRate),
	}
	for i, food := range table.Foods {
		chart.Series[i] = Series{Name: food, Values: append([]float64(nil), shares[i].Values...)}
	}
	return chart, nil
}

// Thresholds returns the upper, requirement and lower lines, drawn in that order.
func Thresholds(lowerRate, upperRate float64) []Threshold {
	return []Threshold{
		{Label: "upper rate", Value: upperRate, Color: ColorUpperRate, Dash: "dot"},
		{Label: "requirement", Value: 1.0, Color: ColorRequirement, Dash: "dot"},
		{Label: "lower rate", Value: lowerRate, Color: ColorLowerRate, Dash: "dot"},
	}
}

// Stacked returns the stacked height of every category.
func (c *Chart) Stacked() []float64 {
	out := make([]float64, len(c.Categories))
	for _, s := range c.Series {
		for i, v := range s.Values {
			out[i] += v
		}
	}
	return out
}
