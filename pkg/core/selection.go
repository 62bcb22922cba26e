package core

import "math"

// SelectedFood is a catalog food together with its solved quantity.
type SelectedFood struct {
	Food     FoodItem
	Quantity int
}

// TotalPrice is price times quantity.
func (s SelectedFood) TotalPrice() float64 {
	return s.Food.Price * float64(s.Quantity)
}

// TotalWeight is weight times quantity.
func (s SelectedFood) TotalWeight() float64 {
	return s.Food.Weight * float64(s.Quantity)
}

// Contribution is the food's content scaled by its quantity.
func (s SelectedFood) Contribution() NutrientVector {
	return s.Food.Content.Scale(float64(s.Quantity))
}

// Selection is a fresh, owned assignment of positive integer quantities to
// foods, in catalog order. It never aliases the catalog it was built from.
type Selection struct {
	Items []SelectedFood
}

// NewSelection pairs foods with quantities, dropping zero quantities.
// Quantities must be non-negative and line up with foods.
func NewSelection(foods []FoodItem, quantities []int) (Selection, error) {
	if len(foods) != len(quantities) {
		return Selection{}, NewSchemaError("got %d quantities for %d foods", len(quantities), len(foods))
	}
	items := make([]SelectedFood, 0, len(foods))
	for i, q := range quantities {
		if q < 0 {
			return Selection{}, NewConfigurationError("food %q: quantity must be >= 0, got %d", foods[i].Name, q)
		}
		if q == 0 {
			continue
		}
		food := foods[i]
		food.Content = food.Content.Clone()
		items = append(items, SelectedFood{Food: food, Quantity: q})
	}
	return Selection{Items: items}, nil
}

// Len returns the number of selected foods.
func (s Selection) Len() int {
	return len(s.Items)
}

// IsEmpty reports whether nothing was selected.
func (s Selection) IsEmpty() bool {
	return len(s.Items) == 0
}

// Quantity returns the selected quantity for a food identity, 0 if absent.
func (s Selection) Quantity(name string) int {
	for _, item := range s.Items {
		if item.Food.Name == name {
			return item.Quantity
		}
	}
	return 0
}

// Quantities returns the selection as a food identity to quantity map.
func (s Selection) Quantities() map[string]int {
	out := make(map[string]int, len(s.Items))
	for _, item := range s.Items {
		out[item.Food.Name] = item.Quantity
	}
	return out
}

// Names returns selected food identities in order.
func (s Selection) Names() []string {
	names := make([]string, len(s.Items))
	for i, item := range s.Items {
		names[i] = item.Food.Name
	}
	return names
}

// TotalCost sums price times quantity over the selection.
func (s Selection) TotalCost() float64 {
	var total float64
	for _, item := range s.Items {
		total += item.TotalPrice()
	}
	return total
}

// TotalWeight sums weight times quantity over the selection.
func (s Selection) TotalWeight() float64 {
	var total float64
	for _, item := range s.Items {
		total += item.TotalWeight()
	}
	return total
}

// Intake returns the nutrient-wise intake of the selection over nutrients.
func (s Selection) Intake(nutrients Nutrients) (NutrientVector, error) {
	total := ZeroVector(nutrients)
	for _, item := range s.Items {
		var err error
		if total, err = total.Add(item.Contribution()); err != nil {
			return NutrientVector{}, err
		}
	}
	return total, nil
}

// Satisfies reports whether the selection's intake lies within bounds, up to tol.
func (s Selection) Satisfies(bounds BoundSet, tol float64) (bool, error) {
	intake, err := s.Intake(bounds.Nutrients())
	if err != nil {
		return false, err
	}
	for i, v := range intake.Values {
		lo, hi := bounds.Lower.Values[i], bounds.Upper.Values[i]
		if v < lo-tol*math.Max(1, math.Abs(lo)) || v > hi+tol*math.Max(1, math.Abs(hi)) {
			return false, nil
		}
	}
	return true, nil
}
