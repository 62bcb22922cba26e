/*
Copyright 2025 The dietopt Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package collector

import (
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/dietopt/diet-optimizer/pkg/core"
)

// Snapshot is an immutable point-in-time view of a catalog and requirement.
type Snapshot struct {
	// Source is the name of the CatalogSource that produced the snapshot.
	Source string

	// LoadedAt is when the snapshot was read.
	LoadedAt time.Time

	Catalog     *core.Catalog
	Requirement core.NutrientVector
}

// Validate checks the catalog rows and that the requirement carries exactly
// the catalog's nutrient columns in the same order.
func (s *Snapshot) Validate() error {
	if s.Catalog == nil {
		return core.NewSchemaError("snapshot has no catalog")
	}
	if err := CompareColumns(s.Catalog.Nutrients, s.Requirement.Nutrients); err != nil {
		return err
	}
	if err := s.Catalog.Validate(); err != nil {
		return err
	}
	return s.Catalog.CheckRequirement(s.Requirement)
}

// Clone returns a deep copy so a caller can hand independent snapshots to
// concurrent runs.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Source:      s.Source,
		LoadedAt:    s.LoadedAt,
		Requirement: s.Requirement.Clone(),
	}
	if s.Catalog != nil {
		foods := make([]core.FoodItem, len(s.Catalog.Foods))
		for i, f := range s.Catalog.Foods {
			f.Content = f.Content.Clone()
			foods[i] = f
		}
		out.Catalog = &core.Catalog{Nutrients: s.Catalog.Nutrients, Foods: foods}
	}
	return out
}

// CompareColumns reports, as a *core.SchemaError, which nutrient columns are
// missing or extra between the catalog and the requirement, or that the two
// sets agree but are ordered differently.
func CompareColumns(catalog, requirement core.Nutrients) error {
	if catalog.Equal(requirement) {
		return nil
	}
	have := sets.New[string](catalog...)
	want := sets.New[string](requirement...)
	if have.Equal(want) {
		return core.NewSchemaError("nutrient columns are in a different order: catalog %v, requirement %v",
			[]string(catalog), []string(requirement))
	}
	var parts []string
	if missing := want.Difference(have); missing.Len() > 0 {
		parts = append(parts, fmt.Sprintf("missing from catalog: %s", strings.Join(sets.List(missing), ", ")))
	}
	if extra := have.Difference(want); extra.Len() > 0 {
		parts = append(parts, fmt.Sprintf("missing from requirement: %s", strings.Join(sets.List(extra), ", ")))
	}
	if len(parts) == 0 {
		// same distinct names, different multiplicity
		parts = append(parts, "duplicate nutrient columns")
	}
	return core.NewSchemaError("nutrient columns differ (%s)", strings.Join(parts, "; "))
}
