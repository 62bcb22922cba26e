package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dietopt/diet-optimizer/pkg/core"
)

func TestCompareColumns(t *testing.T) {
	tests := []struct {
		name        string
		catalog     core.Nutrients
		requirement core.Nutrients
		wantErr     bool
		contains    []string
	}{
		{
			name:        "Test case 1: identical columns",
			catalog:     core.Nutrients{"energy", "salt"},
			requirement: core.Nutrients{"energy", "salt"},
		},
		{
			name:        "Test case 2: different order",
			catalog:     core.Nutrients{"energy", "salt"},
			requirement: core.Nutrients{"salt", "energy"},
			wantErr:     true,
			contains:    []string{"different order"},
		},
		{
			name:        "Test case 3: missing and extra",
			catalog:     core.Nutrients{"energy", "salt"},
			requirement: core.Nutrients{"energy", "fiber"},
			wantErr:     true,
			contains:    []string{"missing from catalog: fiber", "missing from requirement: salt"},
		},
		{
			name:        "Test case 4: empty requirement",
			catalog:     core.Nutrients{"energy"},
			requirement: nil,
			wantErr:     true,
			contains:    []string{"missing from requirement: energy"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareColumns(tt.catalog, tt.requirement)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, core.IsSchemaError(err))
			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestStaticSourceReturnsIndependentCopies(t *testing.T) {
	nutrients := core.Nutrients{"energy"}
	catalog := &core.Catalog{
		Nutrients: nutrients,
		Foods: []core.FoodItem{
			{Name: "bread", Price: 150, Weight: 90, Content: core.NutrientVector{Nutrients: nutrients, Values: []float64{240}}},
		},
	}
	requirement := core.NutrientVector{Nutrients: nutrients, Values: []float64{2000}}
	source := NewStaticSource(catalog, requirement)

	first, err := source.Load(context.Background())
	require.NoError(t, err)
	first.Catalog.Foods[0].Content.Values[0] = 0
	first.Requirement.Values[0] = 0

	second, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static", second.Source)
	assert.InDelta(t, 240, second.Catalog.Foods[0].Content.Values[0], 1e-9)
	assert.InDelta(t, 2000, second.Requirement.Values[0], 1e-9)
	assert.InDelta(t, 240, catalog.Foods[0].Content.Values[0], 1e-9)
}

func TestStaticSourceHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStaticSource(&core.Catalog{}, core.NutrientVector{}).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
