// Package actuator turns optimizer runs into Prometheus metrics.
//
// The optimizer reports each finished run through its Recorder interface;
// MetricsRecorder implements it. A one-shot CLI has no scrape endpoint, so
// WriteText dumps the registry in the text exposition format instead, for
// node_exporter's textfile collector or a push step.
//
// # Metrics
//
//	dietopt_solves_total{status="Optimal",strategy="BranchAndBound"} 1
//	dietopt_solve_duration_seconds_bucket{strategy="BranchAndBound",le="0.004"} 1
//	dietopt_solver_nodes_bucket{strategy="BranchAndBound",le="64"} 1
//	dietopt_selection_cost 1240
//	dietopt_failures_total{reason="schema"} 0
//
// Failure reasons are those of optimizer.FailureReason: configuration,
// schema, cancelled, undetermined and internal.
//
// # Instance Labels
//
// WithInstance adds a constant instance label to every metric:
//
//	rec, err := actuator.NewMetricsRecorder(reg, actuator.WithInstance("nightly"))
//	// Emits: dietopt_solves_total{instance="nightly", ...}
//
// # Usage Example
//
//	reg := prometheus.NewRegistry()
//	rec, err := actuator.NewMetricsRecorder(reg)
//	if err != nil {
//	    return err
//	}
//	opt := optimizer.NewOptimizer(optimizer.WithRecorder(rec))
//	resp, err := opt.Run(ctx, req)
//	...
//	err = actuator.WriteText(f, reg)
package actuator
