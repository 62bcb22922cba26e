package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"k8s.io/apimachinery/pkg/util/validation/field"

	pkgconfig "github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/core"
)

// EnvPrefix is the prefix of environment variables read into the config,
// e.g. DIETOPT_OPTIMIZER_MAXUNITSPERFOOD.
const EnvPrefix = "DIETOPT"

// Config keys. Flags bind to these names.
const (
	KeyFoodsPath          = "catalog.foodsPath"
	KeyRequirementPath    = "catalog.requirementPath"
	KeyLowerRate          = "optimizer.rates.lower"
	KeyUpperRate          = "optimizer.rates.upper"
	KeyMaxUnitsPerFood    = "optimizer.maxUnitsPerFood"
	KeyStrategy           = "optimizer.solver.strategy"
	KeyMaxNodes           = "optimizer.solver.maxNodes"
	KeyMaxCombinations    = "optimizer.solver.maxCombinations"
	KeyTimeout            = "optimizer.timeout"
	KeyReferenceOverrides = "overrides.reference"
	KeyOverridesFile      = "overrides.file"
	KeyOverrideEntries    = "overrides.entries"
	KeyLogLevel           = "log.level"
	KeyLogDevelopment     = "log.development"
)

// DefaultTimeout bounds a single solve when no timeout is configured.
const DefaultTimeout = 2 * time.Minute

// CatalogConfig locates the input tables.
type CatalogConfig struct {
	FoodsPath       string `mapstructure:"foodsPath"`
	RequirementPath string `mapstructure:"requirementPath"`
}

// OptimizerConfig is the viper view of pkg/config.OptimizerSpec plus a timeout.
type OptimizerConfig struct {
	Rates           pkgconfig.RateSpec   `mapstructure:"rates"`
	MaxUnitsPerFood int                  `mapstructure:"maxUnitsPerFood"`
	Solver          pkgconfig.SolverSpec `mapstructure:"solver"`
	Timeout         time.Duration        `mapstructure:"timeout"`
}

// OverridesConfig selects the override sources, applied in order: the
// reference policy, then the policy file, then inline entries.
type OverridesConfig struct {
	Reference bool            `mapstructure:"reference"`
	File      string          `mapstructure:"file"`
	Entries   []OverrideEntry `mapstructure:"entries"`
}

// LogConfig configures the zap backend.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Config is the application configuration.
type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Overrides OverridesConfig `mapstructure:"overrides"`
	Log       LogConfig       `mapstructure:"log"`
}

// NewViper returns a viper instance with defaults and environment binding.
// When configFile is non-empty it is read; a missing file is an error.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, core.WrapConfigurationError(err, "reading config file")
		}
	}
	return v, nil
}

// SetDefaults registers every key so AutomaticEnv can resolve it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFoodsPath, "data/food_data.csv")
	v.SetDefault(KeyRequirementPath, "data/required_nutrition.csv")
	v.SetDefault(KeyLowerRate, pkgconfig.DefaultLowerRate)
	v.SetDefault(KeyUpperRate, pkgconfig.DefaultUpperRate)
	v.SetDefault(KeyMaxUnitsPerFood, pkgconfig.DefaultMaxUnitsPerFood)
	v.SetDefault(KeyStrategy, pkgconfig.DefaultStrategy)
	v.SetDefault(KeyMaxNodes, pkgconfig.DefaultMaxNodes)
	v.SetDefault(KeyMaxCombinations, pkgconfig.DefaultMaxCombinations)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyReferenceOverrides, true)
	v.SetDefault(KeyOverridesFile, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
}

// Load decodes v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, core.WrapConfigurationError(err, "decoding config")
	}
	cfg.Optimizer.Solver.SetDefaults()
	return cfg, nil
}

// Validate checks the parts of the config that are not part of the optimizer spec.
func (c *Config) Validate() error {
	var errs field.ErrorList
	if c.Catalog.FoodsPath == "" {
		errs = append(errs, field.Required(field.NewPath("catalog", "foodsPath"), ""))
	}
	if c.Catalog.RequirementPath == "" {
		errs = append(errs, field.Required(field.NewPath("catalog", "requirementPath"), ""))
	}
	if c.Optimizer.Timeout < 0 {
		errs = append(errs, field.Invalid(field.NewPath("optimizer", "timeout"), c.Optimizer.Timeout.String(), "must be >= 0"))
	}
	if len(errs) == 0 {
		return nil
	}
	return core.WrapConfigurationError(errs.ToAggregate(), "invalid config")
}

// ResolveOverrides merges the configured override sources.
func (c *Config) ResolveOverrides() (pkgconfig.Overrides, error) {
	overrides := pkgconfig.Overrides{}
	if c.Overrides.Reference {
		overrides = pkgconfig.ReferenceOverrides()
	}
	if c.Overrides.File != "" {
		fromFile, err := LoadOverridePolicy(c.Overrides.File)
		if err != nil {
			return nil, err
		}
		overrides = overrides.Merge(fromFile)
	}
	inline, errs := ToOverrides(c.Overrides.Entries, field.NewPath("overrides", "entries"))
	if len(errs) > 0 {
		return nil, core.WrapConfigurationError(errs.ToAggregate(), "invalid inline overrides")
	}
	return overrides.Merge(inline), nil
}

// OptimizerSpec builds the validated spec for a run.
func (c *Config) OptimizerSpec() (pkgconfig.OptimizerSpec, error) {
	overrides, err := c.ResolveOverrides()
	if err != nil {
		return pkgconfig.OptimizerSpec{}, err
	}
	spec := pkgconfig.OptimizerSpec{
		Rates:           c.Optimizer.Rates,
		MaxUnitsPerFood: c.Optimizer.MaxUnitsPerFood,
		Overrides:       overrides,
		Solver:          c.Optimizer.Solver,
	}
	if err := spec.Validate(); err != nil {
		return pkgconfig.OptimizerSpec{}, err
	}
	return spec, nil
}
