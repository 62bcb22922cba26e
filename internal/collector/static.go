package collector

import (
	"context"
	"time"

	"github.com/dietopt/diet-optimizer/pkg/core"
)

// StaticSource serves an in-memory catalog. Every Load returns a deep copy.
type StaticSource struct {
	catalog     *core.Catalog
	requirement core.NutrientVector
}

// NewStaticSource creates a StaticSource over the given catalog and requirement.
func NewStaticSource(catalog *core.Catalog, requirement core.NutrientVector) *StaticSource {
	return &StaticSource{catalog: catalog, requirement: requirement}
}

// Name implements CatalogSource.
func (s *StaticSource) Name() string { return "static" }

// Load implements CatalogSource.
func (s *StaticSource) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot := (&Snapshot{
		Source:      s.Name(),
		Catalog:     s.catalog,
		Requirement: s.requirement,
	}).Clone()
	snapshot.LoadedAt = time.Now()
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return snapshot, nil
}
