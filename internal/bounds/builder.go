// Package bounds derives per-nutrient intake bounds from a requirement baseline.
package bounds

import (
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/core"
)

// Build scales the requirement by the rates and applies overrides on top.
//
// The result satisfies Lower <= Upper for every nutrient. Rate ordering
// violations, overrides for nutrients absent from the requirement, negative
// override values and overrides that invert a bound are all reported as
// *core.ConfigurationError.
func Build(requirement core.NutrientVector, lowerRate, upperRate float64, overrides config.Overrides) (core.BoundSet, error) {
	bounds, err := BuildUnchecked(requirement, lowerRate, upperRate, overrides)
	if err != nil {
		return core.BoundSet{}, err
	}
	if err := bounds.Validate(); err != nil {
		return core.BoundSet{}, err
	}
	return bounds, nil
}

// BuildUnchecked is Build without the final Lower <= Upper postcondition.
// Rates and override values are still validated. It exists for callers that
// need to hand a deliberately inverted BoundSet to a solver.
func BuildUnchecked(requirement core.NutrientVector, lowerRate, upperRate float64, overrides config.Overrides) (core.BoundSet, error) {
	root := field.NewPath("bounds")
	errs := config.RateSpec{Lower: lowerRate, Upper: upperRate}.Validate(root.Child("rates"))
	for _, name := range overrides.Names() {
		ov := overrides[name]
		p := root.Child("overrides").Key(name)
		if requirement.Nutrients.Index(name) < 0 {
			errs = append(errs, field.NotFound(p, name))
		}
		if ov.Lower != nil {
			if err := config.ValidateAmount(p.Child("lower"), *ov.Lower); err != nil {
				errs = append(errs, err)
			}
		}
		if ov.Upper != nil {
			if err := config.ValidateAmount(p.Child("upper"), *ov.Upper); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return core.BoundSet{}, core.WrapConfigurationError(errs.ToAggregate(), "cannot build bounds")
	}
	if len(requirement.Values) != len(requirement.Nutrients) {
		return core.BoundSet{}, core.NewSchemaError("requirement has %d values for %d nutrients",
			len(requirement.Values), len(requirement.Nutrients))
	}

	lower := requirement.Scale(lowerRate)
	upper := requirement.Scale(upperRate)
	for name, ov := range overrides {
		i := requirement.Nutrients.Index(name)
		if ov.Lower != nil {
			lower.Values[i] = *ov.Lower
		}
		if ov.Upper != nil {
			upper.Values[i] = *ov.Upper
		}
	}
	return core.BoundSet{Lower: lower, Upper: upper}, nil
}
