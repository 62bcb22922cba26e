package core

import (
	"fmt"
	"math"
)

// FoodItem is one catalog row: identity, unit price, unit weight and per-unit
// nutrient content. Items are treated as immutable once loaded.
type FoodItem struct {
	Name     string
	Category string
	Price    float64
	Weight   float64
	Content  NutrientVector
}

// Validate checks a single food row.
func (f *FoodItem) Validate() error {
	if f.Name == "" {
		return NewSchemaError("food has an empty name")
	}
	if f.Price < 0 || math.IsNaN(f.Price) || math.IsInf(f.Price, 0) {
		return NewSchemaError("food %q: price must be a finite non-negative number, got %g", f.Name, f.Price)
	}
	if f.Weight < 0 || math.IsNaN(f.Weight) || math.IsInf(f.Weight, 0) {
		return NewSchemaError("food %q: weight must be a finite non-negative number, got %g", f.Name, f.Weight)
	}
	if len(f.Content.Nutrients) != len(f.Content.Values) {
		return NewSchemaError("food %q: %d values for %d nutrients", f.Name, len(f.Content.Values), len(f.Content.Nutrients))
	}
	return f.Content.ValidateNonNegative(fmt.Sprintf("food %q", f.Name))
}

// Catalog is an ordered food list sharing one nutrient schema.
type Catalog struct {
	Nutrients Nutrients
	Foods     []FoodItem
}

// Validate checks the nutrient names, every food row, and identity uniqueness.
func (c *Catalog) Validate() error {
	if err := c.Nutrients.Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Foods))
	for i := range c.Foods {
		food := &c.Foods[i]
		if err := food.Validate(); err != nil {
			return err
		}
		if !food.Content.Nutrients.Equal(c.Nutrients) {
			return NewSchemaError("food %q does not use the catalog nutrient columns", food.Name)
		}
		if _, dup := seen[food.Name]; dup {
			return NewSchemaError("food %q appears more than once", food.Name)
		}
		seen[food.Name] = struct{}{}
	}
	return nil
}

// CheckRequirement verifies that the requirement row carries exactly the
// catalog's nutrient columns, same names and same order.
func (c *Catalog) CheckRequirement(requirement NutrientVector) error {
	if !c.Nutrients.Equal(requirement.Nutrients) {
		return NewSchemaError("requirement columns %v do not match catalog nutrient columns %v",
			[]string(requirement.Nutrients), []string(c.Nutrients))
	}
	if len(requirement.Values) != len(requirement.Nutrients) {
		return NewSchemaError("requirement has %d values for %d nutrients", len(requirement.Values), len(requirement.Nutrients))
	}
	return requirement.ValidateNonNegative("requirement")
}

// Food returns the food with the given identity.
func (c *Catalog) Food(name string) (FoodItem, bool) {
	for _, f := range c.Foods {
		if f.Name == name {
			return f, true
		}
	}
	return FoodItem{}, false
}

// Names returns food identities in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Foods))
	for i, f := range c.Foods {
		names[i] = f.Name
	}
	return names
}
