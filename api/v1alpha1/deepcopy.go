package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

func copyFloat(in *float64) *float64 {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

// DeepCopyInto copies the receiver into out.
func (in *NutrientOverride) DeepCopyInto(out *NutrientOverride) {
	*out = *in
	out.Lower = copyFloat(in.Lower)
	out.Upper = copyFloat(in.Upper)
}

// DeepCopyInto copies the receiver into out.
func (in *DietPlanSpec) DeepCopyInto(out *DietPlanSpec) {
	*out = *in
	if in.Overrides != nil {
		out.Overrides = make([]NutrientOverride, len(in.Overrides))
		for i := range in.Overrides {
			in.Overrides[i].DeepCopyInto(&out.Overrides[i])
		}
	}
}

// DeepCopyInto copies the receiver into out.
func (in *NutrientStatus) DeepCopyInto(out *NutrientStatus) {
	*out = *in
	if in.Shares != nil {
		out.Shares = make(map[string]float64, len(in.Shares))
		for k, v := range in.Shares {
			out.Shares[k] = v
		}
	}
	if in.RequirementShares != nil {
		out.RequirementShares = make(map[string]float64, len(in.RequirementShares))
		for k, v := range in.RequirementShares {
			out.RequirementShares[k] = v
		}
	}
}

// DeepCopyInto copies the receiver into out.
func (in *DietPlanStatus) DeepCopyInto(out *DietPlanStatus) {
	*out = *in
	out.TotalCost = copyFloat(in.TotalCost)
	if in.Items != nil {
		out.Items = append([]PlanItem(nil), in.Items...)
	}
	if in.Nutrients != nil {
		out.Nutrients = make([]NutrientStatus, len(in.Nutrients))
		for i := range in.Nutrients {
			in.Nutrients[i].DeepCopyInto(&out.Nutrients[i])
		}
	}
	in.LastRunTime.DeepCopyInto(&out.LastRunTime)
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}

// DeepCopyInto copies the receiver into out.
func (in *DietPlan) DeepCopyInto(out *DietPlan) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy returns a deep copy of the plan.
func (in *DietPlan) DeepCopy() *DietPlan {
	if in == nil {
		return nil
	}
	out := new(DietPlan)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *DietPlan) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver into out.
func (in *DietPlanList) DeepCopyInto(out *DietPlanList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]DietPlan, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of the list.
func (in *DietPlanList) DeepCopy() *DietPlanList {
	if in == nil {
		return nil
	}
	out := new(DietPlanList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *DietPlanList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
