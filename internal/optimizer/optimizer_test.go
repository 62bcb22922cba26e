package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/utils/ptr"

	"github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/core"
	"github.com/dietopt/diet-optimizer/pkg/solver"
)

var testNutrients = core.Nutrients{"energy", "protein"}

func testCatalog() *core.Catalog {
	food := func(name string, price, weight, energy, protein float64) core.FoodItem {
		return core.FoodItem{
			Name:     name,
			Category: "test",
			Price:    price,
			Weight:   weight,
			Content:  core.NutrientVector{Nutrients: testNutrients, Values: []float64{energy, protein}},
		}
	}
	return &core.Catalog{
		Nutrients: testNutrients,
		Foods: []core.FoodItem{
			food("rice", 100, 150, 300, 5),
			food("egg", 30, 60, 80, 6),
			food("milk", 120, 200, 130, 7),
		},
	}
}

// testRequest bounds intake to [requirement, 2*requirement] with a cap of 4,
// where rice 3 + egg 3 at cost 390 is the unique optimum.
func testRequest() Request {
	spec := config.DefaultOptimizerSpec()
	spec.Rates = config.RateSpec{Lower: 1, Upper: 2}
	spec.MaxUnitsPerFood = 4
	spec.Overrides = nil
	return Request{
		Requirement: core.NutrientVector{Nutrients: testNutrients, Values: []float64{1000, 30}},
		Catalog:     testCatalog(),
		Spec:        *spec,
	}
}

type recordedRun struct {
	status   solver.Status
	strategy string
	cost     float64
}

type fakeRecorder struct {
	mu       sync.Mutex
	runs     []recordedRun
	failures []string
}

func (f *fakeRecorder) RecordRun(status solver.Status, strategy string, _ time.Duration, cost float64, _ solver.Stats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, recordedRun{status: status, strategy: strategy, cost: cost})
}

func (f *fakeRecorder) RecordFailure(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, reason)
}

// stubSolver returns a fixed status without solving.
type stubSolver struct {
	status solver.Status
}

func (s stubSolver) Solve(_ context.Context, _ []core.FoodItem, _ core.BoundSet, _ int) (*solver.Result, error) {
	return &solver.Result{Status: s.status, TotalCost: math.NaN(), Stats: solver.Stats{Nodes: 42}}, nil
}

var _ = Describe("Optimizer", func() {
	var (
		recorder *fakeRecorder
		opt      *Optimizer
	)

	BeforeEach(func() {
		recorder = &fakeRecorder{}
		opt = NewOptimizer(WithRecorder(recorder))
	})

	Context("Run", func() {
		It("should find the cheapest selection and aggregate it", func() {
			resp, err := opt.Run(ctx, testRequest())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(solver.StatusOptimal))
			Expect(resp.TotalCost).To(BeNumerically("~", 390, 1e-6))
			Expect(resp.Selection.Quantities()).To(Equal(map[string]int{"rice": 3, "egg": 3}))

			Expect(resp.Table).NotTo(BeNil())
			Expect(resp.Table.Foods).To(Equal([]string{"rice", "egg"}))
			Expect(resp.Table.Total.Values).To(Equal([]float64{1140, 33}))
			// lower rate 1 makes both baselines the plain requirement
			Expect(resp.Table.LowerReferenceRatio.Values).To(Equal([]float64{1.14, 1.1}))
			Expect(resp.Table.RequirementRatio.Values).To(Equal(resp.Table.LowerReferenceRatio.Values))

			Expect(resp.Bounds.Lower.Values).To(Equal([]float64{1000, 30}))
			Expect(resp.Bounds.Upper.Values).To(Equal([]float64{2000, 60}))

			Expect(recorder.runs).To(HaveLen(1))
			Expect(recorder.runs[0].status).To(Equal(solver.StatusOptimal))
			Expect(recorder.runs[0].strategy).To(Equal(config.StrategyBranchAndBound))
			Expect(recorder.failures).To(BeEmpty())
		})

		It("should agree across solver strategies", func() {
			req := testRequest()
			req.Spec.Solver.Strategy = config.StrategyEnumeration
			resp, err := opt.Run(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.TotalCost).To(BeNumerically("~", 390, 1e-6))
			Expect(recorder.runs[0].strategy).To(Equal(config.StrategyEnumeration))
		})

		It("should apply overrides on top of the rate-derived bounds", func() {
			req := testRequest()
			req.Spec.Overrides = config.Overrides{"protein": {Lower: ptr.To(40.0)}}
			resp, err := opt.Run(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(solver.StatusOptimal))
			Expect(resp.Bounds.Lower.Values).To(Equal([]float64{1000, 40}))

			protein, _ := resp.Table.Total.Get("protein")
			Expect(protein).To(BeNumerically(">=", 40))
		})

		It("should report infeasibility as data", func() {
			req := testRequest()
			req.Spec.MaxUnitsPerFood = 1
			resp, err := opt.Run(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(solver.StatusInfeasible))
			Expect(resp.Selection.IsEmpty()).To(BeTrue())
			Expect(resp.Table).To(BeNil())
			Expect(math.IsNaN(resp.TotalCost)).To(BeTrue())
			Expect(recorder.runs).To(HaveLen(1))
			Expect(recorder.runs[0].status).To(Equal(solver.StatusInfeasible))
		})

		It("should fail fast on configuration errors", func() {
			req := testRequest()
			req.Spec.Rates = config.RateSpec{Lower: 2, Upper: 1}
			_, err := opt.Run(ctx, req)
			Expect(core.IsConfigurationError(err)).To(BeTrue())
			Expect(FailureReason(err)).To(Equal("configuration"))
			Expect(recorder.runs).To(BeEmpty())
			Expect(recorder.failures).To(Equal([]string{"configuration"}))
		})

		It("should reject overrides that invert a bound", func() {
			req := testRequest()
			req.Spec.Overrides = config.Overrides{"energy": {Lower: ptr.To(3000.0)}}
			_, err := opt.Run(ctx, req)
			Expect(core.IsConfigurationError(err)).To(BeTrue())
		})

		It("should reject overrides for nutrients outside the requirement", func() {
			req := testRequest()
			req.Spec.Overrides = config.ReferenceOverrides()
			_, err := opt.Run(ctx, req)
			Expect(core.IsConfigurationError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("salt_equivalent"))
		})

		It("should fail fast on schema errors", func() {
			req := testRequest()
			req.Requirement = core.NutrientVector{Nutrients: core.Nutrients{"protein", "energy"}, Values: []float64{30, 1000}}
			_, err := opt.Run(ctx, req)
			Expect(core.IsSchemaError(err)).To(BeTrue())
			Expect(recorder.failures).To(Equal([]string{"schema"}))

			req = testRequest()
			req.Catalog = nil
			_, err = opt.Run(ctx, req)
			Expect(core.IsSchemaError(err)).To(BeTrue())
		})

		It("should surface undetermined solver statuses as errors", func() {
			for _, status := range []solver.Status{solver.StatusUndetermined, solver.StatusUnbounded} {
				opt = NewOptimizer(WithRecorder(recorder), WithSolver(stubSolver{status: status}))
				resp, err := opt.Run(ctx, testRequest())
				Expect(resp).To(BeNil())
				Expect(errors.Is(err, ErrUndetermined)).To(BeTrue())

				var undetermined *UndeterminedError
				Expect(errors.As(err, &undetermined)).To(BeTrue())
				Expect(undetermined.Status).To(Equal(status))
				Expect(undetermined.Stats.Nodes).To(Equal(42))
				Expect(FailureReason(err)).To(Equal("undetermined"))
			}
		})

		It("should stop when the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := opt.Run(cancelled, testRequest())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(recorder.failures).To(Equal([]string{"cancelled"}))
		})

		It("should not share state between runs", func() {
			first, err := opt.Run(ctx, testRequest())
			Expect(err).NotTo(HaveOccurred())
			first.Selection.Items[0].Quantity = 99

			second, err := opt.Run(ctx, testRequest())
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Selection.Quantity("rice")).To(Equal(3))
		})
	})

	Context("Evaluate", func() {
		It("should aggregate a caller-chosen selection", func() {
			resp, err := opt.Evaluate(ctx, EvaluateRequest{
				Request:    testRequest(),
				Quantities: map[string]int{"rice": 3, "egg": 3},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.WithinBounds).To(BeTrue())
			Expect(resp.Violations).To(BeEmpty())
			Expect(resp.TotalCost).To(BeNumerically("~", 390, 1e-9))
			Expect(resp.Table.Total.Values).To(Equal([]float64{1140, 33}))
		})

		It("should list violated nutrients", func() {
			resp, err := opt.Evaluate(ctx, EvaluateRequest{
				Request:    testRequest(),
				Quantities: map[string]int{"milk": 1},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.WithinBounds).To(BeFalse())
			Expect(resp.Violations).To(Equal([]string{"energy", "protein"}))
			Expect(resp.Selection.Names()).To(Equal([]string{"milk"}))
		})

		It("should accept quantities above the cap", func() {
			resp, err := opt.Evaluate(ctx, EvaluateRequest{
				Request:    testRequest(),
				Quantities: map[string]int{"egg": 6, "rice": 0},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Selection.Quantities()).To(Equal(map[string]int{"egg": 6}))
			Expect(resp.Violations).To(Equal([]string{"energy"}))
		})

		It("should reject unknown foods and negative quantities", func() {
			_, err := opt.Evaluate(ctx, EvaluateRequest{
				Request:    testRequest(),
				Quantities: map[string]int{"bread": 1, "cake": 2},
			})
			Expect(core.IsConfigurationError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("[bread cake]"))

			_, err = opt.Evaluate(ctx, EvaluateRequest{
				Request:    testRequest(),
				Quantities: map[string]int{"egg": -1},
			})
			Expect(core.IsConfigurationError(err)).To(BeTrue())
		})
	})

	Context("FailureReason", func() {
		DescribeTable("should classify pipeline errors",
			func(err error, want string) {
				Expect(FailureReason(err)).To(Equal(want))
			},
			Entry("nil", nil, ""),
			Entry("configuration", core.NewConfigurationError("bad rate"), "configuration"),
			Entry("wrapped schema", fmt.Errorf("loading: %w", core.NewSchemaError("bad row")), "schema"),
			Entry("deadline", context.DeadlineExceeded, "cancelled"),
			Entry("undetermined", &UndeterminedError{Status: solver.StatusUndetermined}, "undetermined"),
			Entry("other", errors.New("disk on fire"), "internal"),
		)
	})
})
