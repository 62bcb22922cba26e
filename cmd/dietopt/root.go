package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	appconfig "github.com/dietopt/diet-optimizer/internal/config"
	"github.com/dietopt/diet-optimizer/internal/logging"
	pkgconfig "github.com/dietopt/diet-optimizer/pkg/config"
)

// Process exit codes.
const (
	exitOK         = 0
	exitError      = 1
	exitInfeasible = 2
)

// errInfeasible makes a command exit with exitInfeasible after it has printed its output.
var errInfeasible = errors.New("no feasible combination; relax constraints")

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// options holds flag values that are not part of the viper config.
type options struct {
	configFile string
	output     string
	planName   string
	chartOut   string
	metricsOut string
	selections []string
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInfeasible):
		fmt.Fprintln(stderr, err)
		return exitInfeasible
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "dietopt",
		Short: "dietopt picks the cheapest food combination that meets your nutrient targets",
		Long: "dietopt reads a food catalog and a daily nutrient requirement, derives per-nutrient bounds " +
			"from lower and upper rates, and solves for the minimum-cost integer quantities of each food.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a dietopt config file (yaml)")
	flags.String("foods", "data/food_data.csv", "Path to the food catalog CSV")
	flags.String("requirement", "data/required_nutrition.csv", "Path to the single-row requirement CSV")
	flags.Float64("lower-rate", pkgconfig.DefaultLowerRate, "Lower bound multiplier of the requirement")
	flags.Float64("upper-rate", pkgconfig.DefaultUpperRate, "Upper bound multiplier of the requirement")
	flags.Int("max-units", pkgconfig.DefaultMaxUnitsPerFood, "Maximum units of any single food")
	flags.String("overrides", "", "Path to an override policy file (yaml)")
	flags.Bool("reference-overrides", true, "Apply the reference energy, salt, carbohydrate and vitamin C bounds")
	flags.String("log-level", "info", "Log level: error, warn, info, debug or trace")
	flags.Bool("log-development", false, "Human-readable console logs")
	flags.StringVarP(&opts.output, "output", "o", outputTable, "Output format: table, json or yaml")
	flags.StringVar(&opts.planName, "plan-name", "", "Name recorded in json and yaml plans")
	flags.StringVar(&opts.chartOut, "chart-out", "", "Write the stacked chart model as JSON to this file")

	root.AddCommand(newOptimizeCmd(opts), newEvaluateCmd(opts))
	return root
}

// persistentBindings maps config keys to root flags.
var persistentBindings = map[string]string{
	appconfig.KeyFoodsPath:          "foods",
	appconfig.KeyRequirementPath:    "requirement",
	appconfig.KeyLowerRate:          "lower-rate",
	appconfig.KeyUpperRate:          "upper-rate",
	appconfig.KeyMaxUnitsPerFood:    "max-units",
	appconfig.KeyOverridesFile:      "overrides",
	appconfig.KeyReferenceOverrides: "reference-overrides",
	appconfig.KeyLogLevel:           "log-level",
	appconfig.KeyLogDevelopment:     "log-development",
}

// loadConfig merges defaults, the config file, DIETOPT_* variables and flags.
func loadConfig(cmd *cobra.Command, opts *options, bindings map[string]string) (*appconfig.Config, error) {
	v, err := appconfig.NewViper(opts.configFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd.Flags(), bindings); err != nil {
		return nil, err
	}
	cfg, err := appconfig.Load(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch opts.output {
	case outputTable, outputJSON, outputYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q", opts.output)
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("flag --%s is not defined", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// withLogger attaches the configured logger to the command context.
func withLogger(cmd *cobra.Command, cfg *appconfig.Config) (context.Context, logr.Logger, error) {
	logger, err := logging.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, logr.Discard(), err
	}
	return logr.NewContext(cmd.Context(), logger), logger, nil
}

func merge(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
