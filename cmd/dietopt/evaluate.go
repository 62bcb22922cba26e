package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dietopt/diet-optimizer/api/v1alpha1"
	"github.com/dietopt/diet-optimizer/internal/collector"
	"github.com/dietopt/diet-optimizer/internal/optimizer"
	"github.com/dietopt/diet-optimizer/internal/reporting"
)

func newEvaluateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Report a hand-picked selection against the nutrient bounds without solving",
		Example: "  dietopt evaluate --select \"rice ball=2\" --select salad=1\n" +
			"  dietopt evaluate --select milk=3 --chart-out chart.json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.selections, "select", nil, "Food and quantity as name=qty; repeatable")
	return cmd
}

// parseSelections turns name=qty pairs into a quantity map. Repeated names add up.
func parseSelections(pairs []string) (map[string]int, error) {
	out := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		i := strings.LastIndex(pair, "=")
		if i <= 0 {
			return nil, fmt.Errorf("invalid --select %q (expected name=qty)", pair)
		}
		name := strings.TrimSpace(pair[:i])
		qty, err := strconv.Atoi(strings.TrimSpace(pair[i+1:]))
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("invalid quantity in --select %q", pair)
		}
		out[name] += qty
	}
	return out, nil
}

func runEvaluate(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts, persistentBindings)
	if err != nil {
		return err
	}
	quantities, err := parseSelections(opts.selections)
	if err != nil {
		return err
	}
	ctx, _, err := withLogger(cmd, cfg)
	if err != nil {
		return err
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

	resp, err := optimizer.NewOptimizer().Evaluate(ctx, optimizer.EvaluateRequest{
		Request: optimizer.Request{
			Requirement: snapshot.Requirement,
			Catalog:     snapshot.Catalog,
			Spec:        spec,
		},
		Quantities: quantities,
	})
	if err != nil {
		return err
	}

	switch opts.output {
	case outputJSON, outputYAML:
		plan, err := reporting.BuildEvaluationPlan(reporting.PlanOptions{
			Name: opts.planName,
			Spec: spec,
			Source: v1alpha1.CatalogSource{
				Kind:        source.Name(),
				Foods:       cfg.Catalog.FoodsPath,
				Requirement: cfg.Catalog.RequirementPath,
			},
		}, resp)
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
		out := cmd.OutOrStdout()
		fmt.Fprint(out, renderResult(resp.Selection, resp.TotalCost, resp.Table, resp.Bounds))
		if resp.WithinBounds {
			fmt.Fprintln(out, "All nutrients within bounds.")
		} else {
			fmt.Fprintf(out, "Out of bounds: %s\n", strings.Join(resp.Violations, ", "))
		}
	}

	if opts.chartOut != "" {
		chart, err := reporting.BuildChart(resp.Table, spec.Rates.Lower, spec.Rates.Upper)
		if err != nil {
			return err
		}
		chart.Title = reporting.EvaluationTitle
		if err := writeJSON(opts.chartOut, chart); err != nil {
			return err
		}
	}
	return nil
}
