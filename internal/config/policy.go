package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"

	pkgconfig "github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/core"
)

// OverrideEntry is one nutrient override as written in a policy file or in
// the application config. The list form keeps nutrient names case-sensitive.
type OverrideEntry struct {
	Nutrient string   `yaml:"nutrient" json:"nutrient" mapstructure:"nutrient"`
	Lower    *float64 `yaml:"lower,omitempty" json:"lower,omitempty" mapstructure:"lower"`
	Upper    *float64 `yaml:"upper,omitempty" json:"upper,omitempty" mapstructure:"upper"`
}

// OverridePolicy is the document stored in an override policy file:
//
//	inheritReference: true
//	overrides:
//	  - nutrient: energy
//	    lower: 1800
//	    upper: 2400
//	  - nutrient: vitamin_c
//	    lower: 100
type OverridePolicy struct {
	// InheritReference starts from the reference policy before applying entries
	InheritReference bool            `yaml:"inheritReference" json:"inheritReference"`
	Overrides        []OverrideEntry `yaml:"overrides" json:"overrides"`
}

// ToOverrides converts a list of entries into an override map. A nutrient
// listed twice is rejected instead of silently letting one entry win.
func ToOverrides(entries []OverrideEntry, path *field.Path) (pkgconfig.Overrides, field.ErrorList) {
	var errs field.ErrorList
	out := make(pkgconfig.Overrides, len(entries))
	firstIndex := make(map[string]int, len(entries))
	for i, e := range entries {
		p := path.Index(i)
		if e.Nutrient == "" {
			errs = append(errs, field.Required(p.Child("nutrient"), "nutrient name must not be empty"))
			continue
		}
		if first, dup := firstIndex[e.Nutrient]; dup {
			errs = append(errs, field.Duplicate(p.Child("nutrient"),
				fmt.Sprintf("%s (first listed at index %d)", e.Nutrient, first)))
			continue
		}
		firstIndex[e.Nutrient] = i
		out[e.Nutrient] = pkgconfig.NutrientOverride{Lower: e.Lower, Upper: e.Upper}
	}
	return out, errs
}

// FromOverrides lists an override map as entries sorted by nutrient.
func FromOverrides(overrides pkgconfig.Overrides) []OverrideEntry {
	entries := make([]OverrideEntry, 0, len(overrides))
	for _, name := range overrides.Names() {
		ov := overrides[name]
		entries = append(entries, OverrideEntry{Nutrient: name, Lower: ov.Lower, Upper: ov.Upper})
	}
	return entries
}

// Resolve returns the effective overrides of the policy.
func (p *OverridePolicy) Resolve() (pkgconfig.Overrides, error) {
	root := field.NewPath("overrides")
	entries, errs := ToOverrides(p.Overrides, root)
	base := pkgconfig.Overrides{}
	if p.InheritReference {
		base = pkgconfig.ReferenceOverrides()
	}
	merged := base.Merge(entries)
	errs = append(errs, merged.Validate(root)...)
	if len(errs) > 0 {
		return nil, core.WrapConfigurationError(errs.ToAggregate(), "invalid override policy")
	}
	return merged, nil
}

// ParseOverridePolicy decodes a policy document. Unknown fields are rejected.
func ParseOverridePolicy(data []byte) (*OverridePolicy, error) {
	policy := &OverridePolicy{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(policy); err != nil {
		if errors.Is(err, io.EOF) {
			return policy, nil
		}
		return nil, core.WrapConfigurationError(err, "parsing override policy")
	}
	return policy, nil
}

// LoadOverridePolicy reads and resolves a policy file.
func LoadOverridePolicy(path string) (pkgconfig.Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapConfigurationError(err, "reading override policy")
	}
	policy, err := ParseOverridePolicy(data)
	if err != nil {
		return nil, err
	}
	return policy.Resolve()
}
