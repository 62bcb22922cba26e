package core

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Nutrients is the ordered set of nutrient names shared by every vector in a run.
type Nutrients []string

// Equal reports whether both sets hold the same names in the same order.
func (n Nutrients) Equal(other Nutrients) bool {
	if len(n) != len(other) {
		return false
	}
	for i := range n {
		if n[i] != other[i] {
			return false
		}
	}
	return true
}

// Index returns the position of name, or -1 if it is not part of the set.
func (n Nutrients) Index(name string) int {
	for i, v := range n {
		if v == name {
			return i
		}
	}
	return -1
}

// Validate checks that names are non-empty and unique.
func (n Nutrients) Validate() error {
	seen := make(map[string]struct{}, len(n))
	for i, name := range n {
		if name == "" {
			return NewSchemaError("nutrient column %d has an empty name", i)
		}
		if _, dup := seen[name]; dup {
			return NewSchemaError("nutrient %q appears more than once", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// NutrientVector is an ordered mapping from nutrient name to amount.
// Values[i] is the amount of Nutrients[i].
type NutrientVector struct {
	Nutrients Nutrients
	Values    []float64
}

// NewNutrientVector pairs values with their nutrient names.
func NewNutrientVector(nutrients Nutrients, values []float64) (NutrientVector, error) {
	if len(nutrients) != len(values) {
		return NutrientVector{}, NewSchemaError("got %d values for %d nutrients", len(values), len(nutrients))
	}
	return NutrientVector{Nutrients: nutrients, Values: values}, nil
}

// ZeroVector returns a vector of zeros over nutrients.
func ZeroVector(nutrients Nutrients) NutrientVector {
	return NutrientVector{Nutrients: nutrients, Values: make([]float64, len(nutrients))}
}

// Len returns the number of nutrients.
func (v NutrientVector) Len() int {
	return len(v.Values)
}

// Get returns the amount for a nutrient name.
func (v NutrientVector) Get(name string) (float64, bool) {
	i := v.Nutrients.Index(name)
	if i < 0 {
		return 0, false
	}
	return v.Values[i], true
}

// Clone returns a deep copy of the values. The nutrient set is shared, it is never mutated.
func (v NutrientVector) Clone() NutrientVector {
	values := make([]float64, len(v.Values))
	copy(values, v.Values)
	return NutrientVector{Nutrients: v.Nutrients, Values: values}
}

// Scale returns a fresh vector with every amount multiplied by factor.
func (v NutrientVector) Scale(factor float64) NutrientVector {
	values := make([]float64, len(v.Values))
	floats.ScaleTo(values, factor, v.Values)
	return NutrientVector{Nutrients: v.Nutrients, Values: values}
}

// Add returns the nutrient-wise sum of v and other.
func (v NutrientVector) Add(other NutrientVector) (NutrientVector, error) {
	if err := v.CheckSchema(other); err != nil {
		return NutrientVector{}, err
	}
	values := make([]float64, len(v.Values))
	floats.AddTo(values, v.Values, other.Values)
	return NutrientVector{Nutrients: v.Nutrients, Values: values}, nil
}

// CheckSchema returns a SchemaError unless other shares v's ordered nutrient set.
func (v NutrientVector) CheckSchema(other NutrientVector) error {
	if !v.Nutrients.Equal(other.Nutrients) {
		return NewSchemaError("nutrient sets differ: %v vs %v", []string(v.Nutrients), []string(other.Nutrients))
	}
	if len(v.Values) != len(other.Values) {
		return NewSchemaError("vector lengths differ: %d vs %d", len(v.Values), len(other.Values))
	}
	return nil
}

// ValidateNonNegative rejects negative amounts; what names the vector in the error.
func (v NutrientVector) ValidateNonNegative(what string) error {
	for i, value := range v.Values {
		if value < 0 {
			return NewSchemaError("%s: %s is negative (%g)", what, v.Nutrients[i], value)
		}
	}
	return nil
}

func (v NutrientVector) String() string {
	return fmt.Sprintf("%v=%v", []string(v.Nutrients), v.Values)
}
