package config

import (
	"sort"

	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"
)

// Nutrient names used by the reference override policy.
const (
	NutrientEnergy         = "energy"
	NutrientSaltEquivalent = "salt_equivalent"
	NutrientCarbohydrate   = "carbohydrate"
	NutrientVitaminC       = "vitamin_c"
)

// NutrientOverride replaces the rate-derived bound of one nutrient with
// absolute values. A nil side keeps the rate-derived bound.
type NutrientOverride struct {
	Lower *float64 `yaml:"lower,omitempty" json:"lower,omitempty"`
	Upper *float64 `yaml:"upper,omitempty" json:"upper,omitempty"`
}

// Overrides maps nutrient name to its override.
type Overrides map[string]NutrientOverride

// ReferenceOverrides returns the reference policy: fixed energy, salt,
// carbohydrate and vitamin C bounds regardless of the configured rates.
func ReferenceOverrides() Overrides {
	return Overrides{
		NutrientEnergy:         {Lower: ptr.To(2000.0), Upper: ptr.To(2600.0)},
		NutrientSaltEquivalent: {Lower: ptr.To(4.0), Upper: ptr.To(12.0)},
		NutrientCarbohydrate:   {Lower: ptr.To(50.0), Upper: ptr.To(160.0)},
		NutrientVitaminC:       {Lower: ptr.To(50.0)},
	}
}

// Names returns the overridden nutrient names, sorted.
func (o Overrides) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a copy of o with every entry of other applied on top.
// Per side, a non-nil value in other wins.
func (o Overrides) Merge(other Overrides) Overrides {
	out := make(Overrides, len(o)+len(other))
	for name, ov := range o {
		out[name] = ov
	}
	for name, ov := range other {
		merged := out[name]
		if ov.Lower != nil {
			merged.Lower = ptr.To(*ov.Lower)
		}
		if ov.Upper != nil {
			merged.Upper = ptr.To(*ov.Upper)
		}
		out[name] = merged
	}
	return out
}

// Validate checks each override in isolation: values must be finite and non-negative and,
// when both sides are set, lower must not exceed upper.
func (o Overrides) Validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	for _, name := range o.Names() {
		ov := o[name]
		p := path.Key(name)
		if name == "" {
			errs = append(errs, field.Required(p, "nutrient name must not be empty"))
		}
		if ov.Lower == nil && ov.Upper == nil {
			errs = append(errs, field.Required(p, "override must set lower, upper or both"))
		}
		if ov.Lower != nil {
			if err := ValidateAmount(p.Child("lower"), *ov.Lower); err != nil {
				errs = append(errs, err)
			}
		}
		if ov.Upper != nil {
			if err := ValidateAmount(p.Child("upper"), *ov.Upper); err != nil {
				errs = append(errs, err)
			}
		}
		if ov.Lower != nil && ov.Upper != nil && *ov.Lower > *ov.Upper {
			errs = append(errs, field.Invalid(p.Child("lower"), *ov.Lower, "must not exceed upper"))
		}
	}
	return errs
}
