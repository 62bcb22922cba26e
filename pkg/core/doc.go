// Package core provides the data structures shared by the diet optimization engine.
//
// The types in this package describe the entities that flow through the
// pipeline:
//
//   - Nutrients / NutrientVector: the ordered nutrient schema and amounts over it
//   - FoodItem / Catalog: foods with unit price, unit weight and per-unit content
//   - BoundSet: per-nutrient lower and upper intake bounds
//   - Selection: solved integer quantities per food
//   - ContributionTable: per-food contributions and requirement-relative shares
//
// Every NutrientVector used together must share the same ordered nutrient set;
// mismatches are reported as *SchemaError. Invalid parameters are reported as
// *ConfigurationError. Both are detected before any solve is attempted.
//
// Example usage:
//
//	nutrients := core.Nutrients{"energy", "protein"}
//	requirement, _ := core.NewNutrientVector(nutrients, []float64{2200, 60})
//	catalog := &core.Catalog{Nutrients: nutrients, Foods: foods}
//	if err := catalog.CheckRequirement(requirement); err != nil {
//	    return err
//	}
//
// The core package is designed to be:
//   - Immutable where possible (operations return fresh vectors)
//   - Independent of loaders, solvers and renderers
package core
