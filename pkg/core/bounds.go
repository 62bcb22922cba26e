package core

// BoundSet holds per-nutrient lower and upper intake bounds.
type BoundSet struct {
	Lower NutrientVector
	Upper NutrientVector
}

// Nutrients returns the nutrient set the bounds are expressed over.
func (b BoundSet) Nutrients() Nutrients {
	return b.Lower.Nutrients
}

// Validate checks that both vectors share a schema and that Lower <= Upper everywhere.
func (b BoundSet) Validate() error {
	if err := b.Lower.CheckSchema(b.Upper); err != nil {
		return err
	}
	for i, name := range b.Lower.Nutrients {
		if b.Lower.Values[i] > b.Upper.Values[i] {
			return NewConfigurationError("nutrient %q: lower bound %g exceeds upper bound %g",
				name, b.Lower.Values[i], b.Upper.Values[i])
		}
	}
	return nil
}
