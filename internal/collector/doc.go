// Package collector provides pluggable catalog loading for the diet optimizer.
//
// The collector package reads the two externally supplied tables the engine
// works from, the food catalog and the nutrient requirement row, and checks
// that their nutrient columns line up before anything else runs.
//
// # Architecture
//
// Sources implement the CatalogSource interface:
//
//	source := collector.NewCSVSource("data/food_data.csv", "data/required_nutrition.csv")
//	snapshot, err := source.Load(ctx)
//
// # Supported Sources
//
//   - CSVSource: CSV files on disk (default)
//   - StaticSource: an in-memory catalog, for tests and embedding
//
// # Table Layout
//
// Food catalog:
//
//	name,category,price,weight,energy,protein,...
//	rice ball,staple,120,110,180,3.5,...
//
// The first four columns are positional (identity, category, unit price, unit
// weight); their header names are free. Every further column is a nutrient.
//
// Requirement table, one data row with exactly the catalog's nutrient columns
// in the same order:
//
//	energy,protein,...
//	2200,60,...
//
// # Errors
//
// Malformed files, non-numeric cells, duplicate names and mismatched nutrient
// columns are reported as *core.SchemaError. Column mismatches name the
// missing and extra columns on each side.
package collector
