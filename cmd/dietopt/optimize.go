package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dietopt/diet-optimizer/api/v1alpha1"
	"github.com/dietopt/diet-optimizer/internal/actuator"
	"github.com/dietopt/diet-optimizer/internal/collector"
	appconfig "github.com/dietopt/diet-optimizer/internal/config"
	"github.com/dietopt/diet-optimizer/internal/optimizer"
	"github.com/dietopt/diet-optimizer/internal/reporting"
	pkgconfig "github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/solver"
)

var optimizeBindings = map[string]string{
	appconfig.KeyStrategy: "strategy",
	appconfig.KeyMaxNodes: "max-nodes",
	appconfig.KeyTimeout:  "timeout",
}

func newOptimizeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Find the minimum-cost selection that satisfies every nutrient bound",
		Example: "  dietopt optimize --foods food_data.csv --requirement required_nutrition.csv\n" +
			"  dietopt optimize --lower-rate 0.5 --upper-rate 2.5 --max-units 4 -o yaml",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, opts)
		},
	}
	cmd.Flags().String("strategy", pkgconfig.DefaultStrategy, "Solver strategy: BranchAndBound or Enumeration")
	cmd.Flags().Int("max-nodes", pkgconfig.DefaultMaxNodes, "Branch-and-bound node limit")
	cmd.Flags().Duration("timeout", appconfig.DefaultTimeout, "Abandon the solve after this long (0 disables)")
	cmd.Flags().StringVar(&opts.metricsOut, "metrics-out", "", "Write run metrics in Prometheus text format to this file")
	return cmd
}

func runOptimize(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts, merge(persistentBindings, optimizeBindings))
	if err != nil {
		return err
	}
	ctx, logger, err := withLogger(cmd, cfg)
	if err != nil {
		return err
	}
	if cfg.Optimizer.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Optimizer.Timeout)
		defer cancel()
	}

	spec, err := cfg.OptimizerSpec()
	if err != nil {
		return err
	}
	source := collector.NewCSVSource(cfg.Catalog.FoodsPath, cfg.Catalog.RequirementPath)
	snapshot, err := source.Load(ctx)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	recorder, err := actuator.NewMetricsRecorder(registry)
	if err != nil {
		return err
	}
	opt := optimizer.NewOptimizer(optimizer.WithRecorder(recorder))
	req := optimizer.Request{
		Requirement: snapshot.Requirement,
		Catalog:     snapshot.Catalog,
		Spec:        spec,
	}

	var outcome optimizer.Outcome
	select {
	case outcome = <-opt.RunAsync(ctx, req):
	case <-ctx.Done():
		// the solver observes ctx too; its result is no longer wanted
		outcome = optimizer.Outcome{Err: ctx.Err()}
	}

	if opts.metricsOut != "" {
		if err := writeFile(opts.metricsOut, func(f *os.File) error { return actuator.WriteText(f, registry) }); err != nil {
			logger.Error(err, "Failed to write metrics", "path", opts.metricsOut)
		}
	}
	if outcome.Err != nil {
		return outcome.Err
	}
	resp := outcome.Response

	planOpts := reporting.PlanOptions{
		Name: opts.planName,
		Spec: spec,
		Source: v1alpha1.CatalogSource{
			Kind:        source.Name(),
			Foods:       cfg.Catalog.FoodsPath,
			Requirement: cfg.Catalog.RequirementPath,
		},
	}
	switch opts.output {
	case outputJSON, outputYAML:
		plan, err := reporting.BuildDietPlan(planOpts, resp)
		if err != nil {
			return err
		}
		raw, err := reporting.MarshalPlan(plan, opts.output)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(raw); err != nil {
			return err
		}
	default:
		if resp.Status == solver.StatusOptimal {
			fmt.Fprint(cmd.OutOrStdout(), renderResult(resp.Selection, resp.TotalCost, resp.Table, resp.Bounds))
		}
	}

	if resp.Status != solver.StatusOptimal {
		return errInfeasible
	}
	if opts.chartOut != "" {
		chart, err := reporting.BuildChart(resp.Table, spec.Rates.Lower, spec.Rates.Upper)
		if err != nil {
			return err
		}
		if err := writeJSON(opts.chartOut, chart); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
