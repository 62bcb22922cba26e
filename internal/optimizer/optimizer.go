package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/dietopt/diet-optimizer/internal/bounds"
	"github.com/dietopt/diet-optimizer/internal/contribution"
	"github.com/dietopt/diet-optimizer/internal/logging"
	"github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/core"
	"github.com/dietopt/diet-optimizer/pkg/solver"
)

// ErrUndetermined is matched by errors returned when the solver ends Unbounded
// or Undetermined. The model is bounded by construction, so either status
// points at a modeling or numerical defect rather than at the data.
var ErrUndetermined = errors.New("solver could not determine an optimal selection")

// UndeterminedError carries the solver status behind ErrUndetermined.
type UndeterminedError struct {
	Status solver.Status
	Stats  solver.Stats
}

func (e *UndeterminedError) Error() string {
	return fmt.Sprintf("%v: status %s after %d nodes", ErrUndetermined, e.Status, e.Stats.Nodes)
}

func (e *UndeterminedError) Is(target error) bool { return target == ErrUndetermined }

// Recorder observes finished runs. The actuator implements it with Prometheus metrics.
type Recorder interface {
	RecordRun(status solver.Status, strategy string, duration time.Duration, cost float64, stats solver.Stats)
	RecordFailure(reason string)
}

// Request is one optimization run: a catalog and requirement snapshot plus
// every parameter, threaded explicitly.
type Request struct {
	Requirement core.NutrientVector
	Catalog     *core.Catalog
	Spec        config.OptimizerSpec
}

// Response is the outcome of Run. Table is nil unless Status is Optimal.
type Response struct {
	Status    solver.Status
	Selection core.Selection
	TotalCost float64
	Table     *core.ContributionTable
	Bounds    core.BoundSet
	Stats     solver.Stats
}

// Optimizer runs the bounds → solve → aggregate pipeline.
type Optimizer struct {
	recorder Recorder
	solver   solver.Solver
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithRecorder attaches a run recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Optimizer) { o.recorder = r }
}

// WithSolver pins the solver instead of building one from each request's spec.
func WithSolver(s solver.Solver) Option {
	return func(o *Optimizer) { o.solver = s }
}

// NewOptimizer creates an Optimizer.
func NewOptimizer(opts ...Option) *Optimizer {
	o := &Optimizer{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run validates the request, builds bounds, solves and aggregates.
//
// Configuration and schema problems fail before solving. An Infeasible status
// is returned as data with a nil error. Unbounded and Undetermined statuses
// are returned as *UndeterminedError. A cancelled context abandons the solve.
func (o *Optimizer) Run(ctx context.Context, req Request) (*Response, error) {
	logger := logr.FromContextOrDiscard(ctx)
	start := time.Now()

	b, err := o.prepare(req)
	if err != nil {
		o.recordFailure(err)
		return nil, err
	}
	s, err := o.solverFor(&req.Spec.Solver)
	if err != nil {
		o.recordFailure(err)
		return nil, err
	}

	logger.V(logging.DEBUG).Info("Starting optimization",
		"foods", len(req.Catalog.Foods),
		"nutrients", len(req.Catalog.Nutrients),
		"lowerRate", req.Spec.Rates.Lower,
		"upperRate", req.Spec.Rates.Upper,
		"maxUnitsPerFood", req.Spec.MaxUnitsPerFood)

	result, err := s.Solve(ctx, req.Catalog.Foods, b, req.Spec.MaxUnitsPerFood)
	if err != nil {
		o.recordFailure(err)
		return nil, err
	}
	o.record(result, req.Spec.Solver.Strategy, time.Since(start))

	resp := &Response{
		Status:    result.Status,
		Selection: result.Selection,
		TotalCost: result.TotalCost,
		Bounds:    b,
		Stats:     result.Stats,
	}

	switch result.Status {
	case solver.StatusOptimal:
	case solver.StatusInfeasible:
		logger.Info("No feasible combination; relax constraints",
			"lowerRate", req.Spec.Rates.Lower,
			"upperRate", req.Spec.Rates.Upper,
			"maxUnitsPerFood", req.Spec.MaxUnitsPerFood)
		return resp, nil
	default:
		return nil, &UndeterminedError{Status: result.Status, Stats: result.Stats}
	}

	table, err := contribution.Aggregate(result.Selection, req.Requirement, req.Spec.Rates.Lower)
	if err != nil {
		return nil, err
	}
	resp.Table = table

	logger.Info("Optimization completed",
		"status", result.Status.String(),
		"totalCost", result.TotalCost,
		"selectedFoods", result.Selection.Len(),
		"nodes", result.Stats.Nodes,
		"elapsed", result.Stats.Elapsed)
	return resp, nil
}

// prepare fails fast on schema and configuration errors and returns the bounds.
func (o *Optimizer) prepare(req Request) (core.BoundSet, error) {
	if req.Catalog == nil {
		return core.BoundSet{}, core.NewSchemaError("catalog is required")
	}
	if err := req.Catalog.Validate(); err != nil {
		return core.BoundSet{}, err
	}
	if err := req.Catalog.CheckRequirement(req.Requirement); err != nil {
		return core.BoundSet{}, err
	}
	if err := req.Spec.Validate(); err != nil {
		return core.BoundSet{}, err
	}
	return bounds.Build(req.Requirement, req.Spec.Rates.Lower, req.Spec.Rates.Upper, req.Spec.Overrides)
}

func (o *Optimizer) solverFor(spec *config.SolverSpec) (solver.Solver, error) {
	if o.solver != nil {
		return o.solver, nil
	}
	return solver.NewSolverFromSpec(spec)
}

func (o *Optimizer) record(result *solver.Result, strategy string, elapsed time.Duration) {
	if o.recorder == nil {
		return
	}
	o.recorder.RecordRun(result.Status, strategy, elapsed, result.TotalCost, result.Stats)
}

func (o *Optimizer) recordFailure(err error) {
	if o.recorder == nil {
		return
	}
	o.recorder.RecordFailure(FailureReason(err))
}

// FailureReason classifies a pipeline error for metrics and exit codes.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case core.IsConfigurationError(err):
		return "configuration"
	case core.IsSchemaError(err):
		return "schema"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, ErrUndetermined):
		return "undetermined"
	default:
		return "internal"
	}
}
