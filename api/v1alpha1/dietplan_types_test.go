package v1alpha1

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"
)

// helper: build a valid DietPlan object
func makeValidPlan() *DietPlan {
	return &DietPlan{
		TypeMeta: metav1.TypeMeta{
			APIVersion: GroupVersion.String(),
			Kind:       KindDietPlan,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: "plan-sample",
			Labels: map[string]string{
				"app.kubernetes.io/name": "dietopt",
			},
		},
		Spec: DietPlanSpec{
			Mode:            ModeOptimize,
			Rates:           Rates{Lower: 0.6, Upper: 3.0},
			MaxUnitsPerFood: 8,
			Strategy:        "BranchAndBound",
			Overrides: []NutrientOverride{
				{Nutrient: "energy", Lower: ptr.To(2000.0), Upper: ptr.To(2600.0)},
				{Nutrient: "vitamin_c", Lower: ptr.To(50.0)},
			},
			Source: CatalogSource{Kind: "csv", Foods: "food_data.csv", Requirement: "required_nutrition.csv"},
		},
		Status: DietPlanStatus{
			Result:      "Optimal",
			TotalCost:   ptr.To(1240.0),
			TotalWeight: 880,
			Items: []PlanItem{
				{Name: "rice ball", Category: "staple", Quantity: 3, UnitPrice: 120, TotalPrice: 360, TotalWeight: 330},
			},
			Nutrients: []NutrientStatus{
				{
					Name: "energy", Lower: 2000, Upper: 2600, Intake: 2100,
					LowerReference: 1320, Requirement: 2200,
					LowerReferenceRatio: 1.59, RequirementRatio: 0.95,
					Shares:            map[string]float64{"rice ball": 1.59},
					RequirementShares: map[string]float64{"rice ball": 0.95},
				},
			},
			Solver:      SolverStats{Nodes: 12, Relaxations: 12, ElapsedMillis: 4},
			LastRunTime: metav1.NewTime(time.Unix(1730000000, 0).UTC()),
			Conditions: []metav1.Condition{
				{
					Type:               TypeFeasible,
					Status:             metav1.ConditionTrue,
					Reason:             ReasonOptimalSelection,
					LastTransitionTime: metav1.NewTime(time.Unix(1730000000, 0).UTC()),
				},
			},
		},
	}
}

func TestSchemeRegistration(t *testing.T) {
	s := runtime.NewScheme()
	if err := AddToScheme(s); err != nil {
		t.Fatalf("AddToScheme failed: %v", err)
	}

	kinds, _, err := s.ObjectKinds(&DietPlan{})
	if err != nil {
		t.Fatalf("ObjectKinds for DietPlan failed: %v", err)
	}
	if len(kinds) == 0 || kinds[0].Kind != KindDietPlan {
		t.Fatalf("no GVK registered for DietPlan: %v", kinds)
	}

	listKinds, _, err := s.ObjectKinds(&DietPlanList{})
	if err != nil {
		t.Fatalf("ObjectKinds for DietPlanList failed: %v", err)
	}
	if len(listKinds) == 0 {
		t.Fatalf("no GVK registered for DietPlanList")
	}
}

func TestDeepCopyIndependence(t *testing.T) {
	orig := makeValidPlan()
	cp := orig.DeepCopy()

	cp.Spec.Strategy = "Enumeration"
	*cp.Spec.Overrides[0].Lower = 1800
	*cp.Status.TotalCost = 1
	cp.Status.Items[0].Quantity = 4
	cp.Status.Nutrients[0].Shares["rice ball"] = 0
	cp.Status.Nutrients[0].RequirementShares["rice ball"] = 0
	cp.Labels["app.kubernetes.io/name"] = "other"

	if orig.Spec.Strategy == cp.Spec.Strategy {
		t.Errorf("DeepCopy did not create independent copy for Spec.Strategy")
	}
	if *orig.Spec.Overrides[0].Lower == 1800 {
		t.Errorf("DeepCopy did not create independent copy for Spec.Overrides")
	}
	if *orig.Status.TotalCost == 1 {
		t.Errorf("DeepCopy did not create independent copy for Status.TotalCost")
	}
	if orig.Status.Items[0].Quantity == 4 {
		t.Errorf("DeepCopy did not create independent copy for Status.Items")
	}
	if orig.Status.Nutrients[0].Shares["rice ball"] == 0 {
		t.Errorf("DeepCopy did not create independent copy for Status.Nutrients shares")
	}
	if orig.Status.Nutrients[0].RequirementShares["rice ball"] == 0 {
		t.Errorf("DeepCopy did not create independent copy for Status.Nutrients requirement shares")
	}
	if orig.Labels["app.kubernetes.io/name"] != "dietopt" {
		t.Errorf("DeepCopy did not create independent copy for labels")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig := makeValidPlan()

	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var back DietPlan
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}

	ot := orig.Status.LastRunTime.Time
	bt := back.Status.LastRunTime.Time
	if !ot.Equal(bt) {
		t.Fatalf("LastRunTime mismatch by instant: orig=%v back=%v", ot, bt)
	}

	back.Status.LastRunTime = orig.Status.LastRunTime
	back.Status.Conditions[0].LastTransitionTime = orig.Status.Conditions[0].LastTransitionTime

	if !reflect.DeepEqual(orig, &back) {
		t.Errorf("round-trip mismatch:\norig=%#v\nback=%#v", orig, &back)
	}
}

func TestListDeepCopyAndItemsIndependence(t *testing.T) {
	p1 := makeValidPlan()
	p2 := makeValidPlan()
	p2.Name = "plan-other"
	list := &DietPlanList{
		Items: []DietPlan{*p1, *p2},
	}

	cp := list.DeepCopy()
	if len(cp.Items) != 2 {
		t.Fatalf("DeepCopy list items count mismatch: got %d", len(cp.Items))
	}
	// mutate copy
	cp.Items[0].Spec.MaxUnitsPerFood = 1

	if list.Items[0].Spec.MaxUnitsPerFood == cp.Items[0].Spec.MaxUnitsPerFood {
		t.Errorf("DeepCopy did not isolate list items")
	}
}

func TestInfeasibleStatusOmitsCost(t *testing.T) {
	plan := &DietPlan{
		ObjectMeta: metav1.ObjectMeta{Name: "plan-infeasible"},
		Spec:       DietPlanSpec{Mode: ModeOptimize, Rates: Rates{Lower: 0.6, Upper: 3.0}},
		Status:     DietPlanStatus{Result: "Infeasible"},
	}

	b, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		Status map[string]any `json:"status"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := decoded.Status["totalCost"]; ok {
		t.Errorf("expected totalCost to be omitted for an infeasible plan, got: %s", string(b))
	}
	if _, ok := decoded.Status["items"]; ok {
		t.Errorf("expected items to be omitted for an infeasible plan, got: %s", string(b))
	}
	if decoded.Status["result"] != "Infeasible" {
		t.Errorf("unexpected result: %v", decoded.Status["result"])
	}
}
