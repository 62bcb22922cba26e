// Package reporting turns optimizer output into presentation models.
//
// BuildChart lays a ContributionTable out as a stacked bar chart: nutrients
// on the x-axis, one series per selected food, and three dotted threshold
// lines at the lower rate (red), the plain requirement 1.0 (black) and the
// upper rate (blue). Series are requirement shares: stacking a nutrient's
// series reproduces total / requirement, so the bar tops can be read directly
// against the lines.
//
// BuildDietPlan and BuildEvaluationPlan produce a v1alpha1.DietPlan document,
// which MarshalPlan writes as JSON or YAML.
package reporting
