// Package contribution expands a Selection into per-food nutrient
// contributions and requirement-relative shares used for stacked reporting.
package contribution

import (
	"math"

	"github.com/dietopt/diet-optimizer/pkg/core"
)

// RatioPrecision is the number of decimals the reference ratios are rounded to.
const RatioPrecision = 2

// Aggregate builds the ContributionTable of a selection.
//
// For every nutrient n:
//
//	total[n]               = sum over foods of content[f][n] * quantity[f]
//	lowerReference[n]      = requirement[n] * lowerBoundRequirementRatio
//	lowerReferenceRatio[n] = round2(total[n] / lowerReference[n])
//	requirementRatio[n]    = round2(total[n] / requirement[n])
//	share[f][n]            = contribution[f][n] / total[n] * ratio[n]
//
// Shares of a nutrient that nothing supplies are zero. A zero reference gives
// a zero ratio.
func Aggregate(selection core.Selection, requirement core.NutrientVector, lowerBoundRequirementRatio float64) (*core.ContributionTable, error) {
	if lowerBoundRequirementRatio < 0 || math.IsNaN(lowerBoundRequirementRatio) {
		return nil, core.NewConfigurationError("lower bound requirement ratio must be >= 0, got %g", lowerBoundRequirementRatio)
	}
	if len(requirement.Values) != len(requirement.Nutrients) {
		return nil, core.NewSchemaError("requirement has %d values for %d nutrients",
			len(requirement.Values), len(requirement.Nutrients))
	}
	nutrients := requirement.Nutrients

	table := &core.ContributionTable{
		Nutrients:            nutrients,
		Foods:                selection.Names(),
		Contributions:        make([]core.NutrientVector, selection.Len()),
		LowerReferenceShares: make([]core.NutrientVector, selection.Len()),
		RequirementShares:    make([]core.NutrientVector, selection.Len()),
		Requirement:          requirement.Clone(),
		LowerReference:       requirement.Scale(lowerBoundRequirementRatio),
	}

	// Step 1 and 2: absolute contributions and their total
	total := core.ZeroVector(nutrients)
	for i, item := range selection.Items {
		if err := requirement.CheckSchema(item.Food.Content); err != nil {
			return nil, core.WrapSchemaError(err, "food "+item.Food.Name)
		}
		contribution := item.Contribution()
		table.Contributions[i] = contribution
		var err error
		if total, err = total.Add(contribution); err != nil {
			return nil, err
		}
	}
	table.Total = total

	// Step 3 and 4: ratios of total supply to both references
	table.LowerReferenceRatio = ratio(total, table.LowerReference)
	table.RequirementRatio = ratio(total, table.Requirement)

	// Step 5: distribute each aggregate ratio over the contributing foods
	for i, contribution := range table.Contributions {
		table.LowerReferenceShares[i] = shares(contribution, total, table.LowerReferenceRatio)
		table.RequirementShares[i] = shares(contribution, total, table.RequirementRatio)
	}
	return table, nil
}

// Round rounds v to RatioPrecision decimals, half away from zero.
func Round(v float64) float64 {
	scale := math.Pow10(RatioPrecision)
	return math.Round(v*scale) / scale
}

func ratio(total, reference core.NutrientVector) core.NutrientVector {
	out := core.ZeroVector(total.Nutrients)
	for n, ref := range reference.Values {
		if ref == 0 {
			continue
		}
		out.Values[n] = Round(total.Values[n] / ref)
	}
	return out
}

func shares(contribution, total, scale core.NutrientVector) core.NutrientVector {
	out := core.ZeroVector(total.Nutrients)
	for n, t := range total.Values {
		if t == 0 {
			continue
		}
		out.Values[n] = contribution.Values[n] / t * scale.Values[n]
	}
	return out
}

// ShareSums stacks per-food shares nutrient-wise. With LowerReferenceShares it
// reproduces LowerReferenceRatio up to RatioPrecision.
func ShareSums(table *core.ContributionTable, shares []core.NutrientVector) core.NutrientVector {
	out := core.ZeroVector(table.Nutrients)
	for _, s := range shares {
		for n, v := range s.Values {
			out.Values[n] += v
		}
	}
	return out
}
