package core

// Derived column names of a ContributionTable.
const (
	ColumnTotal               = "total"
	ColumnLowerReferenceRatio = "lower_reference_ratio"
	ColumnRequirementRatio    = "requirement_ratio"
)

// ContributionTable is the post-solve breakdown of a Selection against the
// requirement baseline. It is indexed by nutrient: Foods[i] owns
// Contributions[i], LowerReferenceShares[i] and RequirementShares[i].
//
// Two share baselines are kept side by side. LowerReferenceShares stack up to
// LowerReferenceRatio (total over requirement*lowerRate), RequirementShares
// stack up to RequirementRatio (total over the plain requirement).
type ContributionTable struct {
	Nutrients Nutrients
	Foods     []string

	// Contributions are the absolute per-food amounts (content * quantity).
	Contributions []NutrientVector
	Total         NutrientVector

	LowerReference NutrientVector
	Requirement    NutrientVector

	// Ratios are rounded to two decimals.
	LowerReferenceRatio NutrientVector
	RequirementRatio    NutrientVector

	LowerReferenceShares []NutrientVector
	RequirementShares    []NutrientVector
}

// Column returns a food's share column (lower-reference baseline) or one of
// the derived columns: ColumnTotal, ColumnLowerReferenceRatio, ColumnRequirementRatio.
func (t *ContributionTable) Column(name string) (NutrientVector, bool) {
	switch name {
	case ColumnTotal:
		return t.Total, true
	case ColumnLowerReferenceRatio:
		return t.LowerReferenceRatio, true
	case ColumnRequirementRatio:
		return t.RequirementRatio, true
	}
	for i, food := range t.Foods {
		if food == name {
			return t.LowerReferenceShares[i], true
		}
	}
	return NutrientVector{}, false
}

// Row returns every column's value for one nutrient, keyed by column name.
func (t *ContributionTable) Row(nutrient string) (map[string]float64, bool) {
	n := t.Nutrients.Index(nutrient)
	if n < 0 {
		return nil, false
	}
	row := make(map[string]float64, len(t.Foods)+3)
	for i, food := range t.Foods {
		row[food] = t.LowerReferenceShares[i].Values[n]
	}
	row[ColumnTotal] = t.Total.Values[n]
	row[ColumnLowerReferenceRatio] = t.LowerReferenceRatio.Values[n]
	row[ColumnRequirementRatio] = t.RequirementRatio.Values[n]
	return row, true
}
