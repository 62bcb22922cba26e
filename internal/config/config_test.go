package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	pkgconfig "github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/core"
)

func TestLoadDefaults(t *testing.T) {
	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.InDelta(t, pkgconfig.DefaultLowerRate, cfg.Optimizer.Rates.Lower, 1e-12)
	assert.InDelta(t, pkgconfig.DefaultUpperRate, cfg.Optimizer.Rates.Upper, 1e-12)
	assert.Equal(t, pkgconfig.DefaultMaxUnitsPerFood, cfg.Optimizer.MaxUnitsPerFood)
	assert.Equal(t, pkgconfig.DefaultStrategy, cfg.Optimizer.Solver.Strategy)
	assert.Equal(t, DefaultTimeout, cfg.Optimizer.Timeout)
	assert.True(t, cfg.Overrides.Reference)

	spec, err := cfg.OptimizerSpec()
	require.NoError(t, err)
	assert.Equal(t, pkgconfig.ReferenceOverrides(), spec.Overrides)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DIETOPT_OPTIMIZER_MAXUNITSPERFOOD", "3")
	t.Setenv("DIETOPT_OPTIMIZER_SOLVER_STRATEGY", pkgconfig.StrategyEnumeration)
	t.Setenv("DIETOPT_OVERRIDES_REFERENCE", "false")

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Optimizer.MaxUnitsPerFood)
	assert.Equal(t, pkgconfig.StrategyEnumeration, cfg.Optimizer.Solver.Strategy)

	spec, err := cfg.OptimizerSpec()
	require.NoError(t, err)
	assert.Empty(t, spec.Overrides)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	policy := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(policy, []byte(`
overrides:
  - nutrient: vitamin_c
    lower: 80
`), 0o600))
	path := filepath.Join(dir, "dietopt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog:
  foodsPath: foods.csv
  requirementPath: req.csv
optimizer:
  rates:
    lower: 0.5
    upper: 2.5
  timeout: 30s
overrides:
  file: `+policy+`
  entries:
    - nutrient: energy
      upper: 2400
`), 0o600))

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "foods.csv", cfg.Catalog.FoodsPath)
	assert.InDelta(t, 0.5, cfg.Optimizer.Rates.Lower, 1e-12)
	assert.Equal(t, 30*time.Second, cfg.Optimizer.Timeout)

	spec, err := cfg.OptimizerSpec()
	require.NoError(t, err)
	assert.Equal(t, pkgconfig.NutrientOverride{Lower: ptr.To(2000.0), Upper: ptr.To(2400.0)}, spec.Overrides[pkgconfig.NutrientEnergy])
	assert.Equal(t, pkgconfig.NutrientOverride{Lower: ptr.To(80.0)}, spec.Overrides[pkgconfig.NutrientVitaminC])
}

func TestOptimizerSpecRejectsInvalidRates(t *testing.T) {
	v, err := NewViper("")
	require.NoError(t, err)
	v.Set(KeyLowerRate, 3.5)
	cfg, err := Load(v)
	require.NoError(t, err)

	_, err = cfg.OptimizerSpec()
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
}

func TestNewViperMissingFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
}
