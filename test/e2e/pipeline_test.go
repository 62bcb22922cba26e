package e2e

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/dietopt/diet-optimizer/api/v1alpha1"
	"github.com/dietopt/diet-optimizer/internal/contribution"
	"github.com/dietopt/diet-optimizer/internal/optimizer"
	"github.com/dietopt/diet-optimizer/internal/reporting"
	"github.com/dietopt/diet-optimizer/pkg/config"
	"github.com/dietopt/diet-optimizer/pkg/core"
	"github.com/dietopt/diet-optimizer/pkg/solver"
)

// referenceOptimalCost is the minimum price of the sample catalog under the
// default rates, cap and reference overrides.
const referenceOptimalCost = 1390.0

func request(spec *config.OptimizerSpec) optimizer.Request {
	s := snapshot.Clone()
	return optimizer.Request{
		Requirement: s.Requirement,
		Catalog:     s.Catalog,
		Spec:        *spec,
	}
}

var _ = Describe("Optimization with the reference policy", Ordered, func() {
	var resp *optimizer.Response

	BeforeAll(func() {
		var err error
		resp, err = optimizer.NewOptimizer().Run(ctx, request(config.DefaultOptimizerSpec()))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should find an optimal selection", func() {
		Expect(resp.Status).To(Equal(solver.StatusOptimal))
		Expect(resp.Selection.IsEmpty()).To(BeFalse())
		Expect(resp.TotalCost).To(BeNumerically("~", referenceOptimalCost, 1e-6))
		_, _ = fmt.Fprintf(GinkgoWriter, "Selection: %v (cost %.0f, %d nodes)\n",
			resp.Selection.Quantities(), resp.TotalCost, resp.Stats.Nodes)
	})

	It("should respect every bound and the per-food cap", func() {
		ok, err := resp.Selection.Satisfies(resp.Bounds, 1e-6)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		for _, item := range resp.Selection.Items {
			Expect(item.Quantity).To(BeNumerically(">=", 1))
			Expect(item.Quantity).To(BeNumerically("<=", config.DefaultMaxUnitsPerFood))
		}
	})

	It("should apply the reference overrides to the bounds", func() {
		energy := resp.Bounds.Nutrients().Index(config.NutrientEnergy)
		Expect(energy).To(BeNumerically(">=", 0))
		Expect(resp.Bounds.Lower.Values[energy]).To(Equal(2000.0))
		Expect(resp.Bounds.Upper.Values[energy]).To(Equal(2600.0))
		protein := resp.Bounds.Nutrients().Index("protein")
		Expect(resp.Bounds.Lower.Values[protein]).To(BeNumerically("~", 36, 1e-9))
		Expect(resp.Bounds.Upper.Values[protein]).To(BeNumerically("~", 180, 1e-9))
	})

	It("should stack shares back up to the reference ratios", func() {
		table := resp.Table
		checks := []struct {
			shares []core.NutrientVector
			ratio  core.NutrientVector
		}{
			{table.LowerReferenceShares, table.LowerReferenceRatio},
			{table.RequirementShares, table.RequirementRatio},
		}
		for _, check := range checks {
			sums := contribution.ShareSums(table, check.shares)
			for n, name := range table.Nutrients {
				Expect(contribution.Round(sums.Values[n])).To(BeNumerically("~", check.ratio.Values[n], 1e-9),
					"nutrient %s", name)
			}
		}
	})

	It("should render a chart and a plan document", func() {
		chart, err := reporting.BuildChart(resp.Table, config.DefaultLowerRate, config.DefaultUpperRate)
		Expect(err).NotTo(HaveOccurred())
		Expect(chart.Series).To(HaveLen(resp.Selection.Len()))
		Expect(chart.Thresholds).To(HaveLen(3))

		plan, err := reporting.BuildDietPlan(reporting.PlanOptions{Name: "e2e", Spec: *config.DefaultOptimizerSpec()}, resp)
		Expect(err).NotTo(HaveOccurred())
		raw, err := reporting.MarshalPlan(plan, reporting.FormatYAML)
		Expect(err).NotTo(HaveOccurred())

		var back v1alpha1.DietPlan
		Expect(yaml.Unmarshal(raw, &back)).To(Succeed())
		Expect(back.Status.Result).To(Equal("Optimal"))
		Expect(*back.Status.TotalCost).To(BeNumerically("~", referenceOptimalCost, 1e-6))
		Expect(back.Status.Nutrients).To(HaveLen(len(snapshot.Catalog.Nutrients)))
	})
})

var _ = Describe("Infeasible constraints", func() {
	It("should report Infeasible as a status, not an error", func() {
		spec := config.DefaultOptimizerSpec()
		spec.Rates.Upper = 0.7

		resp, err := optimizer.NewOptimizer().Run(ctx, request(spec))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Status).To(Equal(solver.StatusInfeasible))
		Expect(resp.Selection.IsEmpty()).To(BeTrue())
		Expect(math.IsNaN(resp.TotalCost)).To(BeTrue())
		Expect(resp.Table).To(BeNil())
	})

	It("should reject an override that inverts a nutrient's bounds", func() {
		spec := config.DefaultOptimizerSpec()
		spec.Overrides = spec.Overrides.Merge(config.Overrides{
			"protein": {Lower: ptr.To(200.0)},
		})

		_, err := optimizer.NewOptimizer().Run(ctx, request(spec))
		Expect(err).To(HaveOccurred())
		Expect(core.IsConfigurationError(err)).To(BeTrue())
	})
})

var _ = Describe("Solver strategies", func() {
	It("should refuse to enumerate the full catalog", func() {
		spec := config.DefaultOptimizerSpec()
		spec.Solver.Strategy = config.StrategyEnumeration

		_, err := optimizer.NewOptimizer().Run(ctx, request(spec))
		Expect(err).To(HaveOccurred())
		Expect(core.IsConfigurationError(err)).To(BeTrue())
	})

	It("should agree with enumeration on a reduced catalog", func() {
		spec := config.DefaultOptimizerSpec()
		spec.MaxUnitsPerFood = 3
		spec.Overrides = config.Overrides{}

		req := request(spec)
		var foods []core.FoodItem
		for _, name := range []string{"natto", "broccoli", "mackerel can", "avocado", "rice ball", "kiwi"} {
			food, ok := req.Catalog.Food(name)
			Expect(ok).To(BeTrue(), "sample catalog should list %s", name)
			foods = append(foods, food)
		}
		req.Catalog.Foods = foods

		bb, err := optimizer.NewOptimizer().Run(ctx, req)
		Expect(err).NotTo(HaveOccurred())

		enumSpec := *spec
		enumSpec.Solver.Strategy = config.StrategyEnumeration
		req.Spec = enumSpec
		en, err := optimizer.NewOptimizer().Run(ctx, req)
		Expect(err).NotTo(HaveOccurred())

		Expect(bb.Status).To(Equal(solver.StatusOptimal))
		Expect(en.Status).To(Equal(solver.StatusOptimal))
		Expect(bb.TotalCost).To(BeNumerically("~", en.TotalCost, 1e-6))
		Expect(bb.TotalCost).To(BeNumerically("~", 1310, 1e-6))
	})
})

var _ = Describe("Free selection", func() {
	It("should evaluate a hand-picked selection against the bounds", func() {
		resp, err := optimizer.NewOptimizer().Evaluate(ctx, optimizer.EvaluateRequest{
			Request:    request(config.DefaultOptimizerSpec()),
			Quantities: map[string]int{"rice ball": 2, "boiled egg": 1},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.TotalCost).To(BeNumerically("~", 340, 1e-9))
		Expect(resp.WithinBounds).To(BeFalse())
		Expect(resp.Violations).To(ContainElement(config.NutrientEnergy))
	})
})
