package patch

import (
	"strings"
	"testing"

	"contractor-estimate-be/internal/entity"
)

func demoEstimate() *entity.Estimate {
	return &entity.Estimate{
		ProjectDescription: "Kitchen remodel",
		EstimatedTotalMin:  2400,
		EstimatedTotalMax:  3400,
		EstimateItems: []entity.EstimateItem{
			{Uid: "demo001", Description: "Demolition", Category: "labor", CostRangeMin: 1200, CostRangeMax: 1800},
			{Uid: "floor001", Description: "Flooring", Category: "materials", CostRangeMin: 1200, CostRangeMax: 1600},
		},
	}
}

func TestRunOutcomesMatchRequests(t *testing.T) {
	requests := []Request{
		{JSONPath: "/project_description", Operation: OperationReplace, NewValue: "a"},
		{JSONPath: "/estimate_items/nope/cost_range_min", Operation: OperationReplace, NewValue: float64(1)},
		{JSONPath: "/estimate_items/demo001/notes", Operation: OperationReplace, NewValue: "b"},
	}

	result := NewRunner().Run(demoEstimate(), requests)

	if len(result.Outcomes) != len(requests) {
		t.Fatalf("outcomes length = %d, want %d", len(result.Outcomes), len(requests))
	}
	wantSuccess := []bool{true, false, true}
	for i, want := range wantSuccess {
		if result.Outcomes[i].Success != want {
			t.Errorf("outcomes[%d].Success = %v, want %v (%s)", i, result.Outcomes[i].Success, want, result.Outcomes[i].ErrorMessage)
		}
	}
	if result.Applied() != 2 {
		t.Errorf("Applied() = %d, want 2", result.Applied())
	}
}

func TestRunReplaceItemField(t *testing.T) {
	doc := demoEstimate()
	result := NewRunner().Run(doc, []Request{
		{JSONPath: "/estimate_items/demo001/cost_range_min", Operation: OperationReplace, NewValue: float64(1500)},
	})

	if !result.Outcomes[0].Success {
		t.Fatalf("replace failed: %s", result.Outcomes[0].ErrorMessage)
	}
	if got := result.Document.EstimateItems[0].CostRangeMin; got != 1500 {
		t.Errorf("item[0].CostRangeMin = %v, want 1500", got)
	}
	// The sibling item must be untouched.
	if result.Document.EstimateItems[1] != doc.EstimateItems[1] {
		t.Errorf("item[1] changed: %+v", result.Document.EstimateItems[1])
	}
	// Cost replacements feed the derived totals.
	if result.Document.EstimatedTotalMin != 2700 {
		t.Errorf("EstimatedTotalMin = %v, want 2700", result.Document.EstimatedTotalMin)
	}
	// The input snapshot is never mutated.
	if doc.EstimateItems[0].CostRangeMin != 1200 {
		t.Errorf("input document was mutated: %v", doc.EstimateItems[0].CostRangeMin)
	}
}

func TestRunRemoveItem(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items/demo001", Operation: OperationRemove},
	})

	if !result.Outcomes[0].Success {
		t.Fatalf("remove failed: %s", result.Outcomes[0].ErrorMessage)
	}
	if len(result.Document.EstimateItems) != 1 {
		t.Fatalf("item count = %d, want 1", len(result.Document.EstimateItems))
	}
	for _, item := range result.Document.EstimateItems {
		if item.Uid == "demo001" {
			t.Error("removed uid still present")
		}
	}
	if result.Document.EstimatedTotalMin != 1200 || result.Document.EstimatedTotalMax != 1600 {
		t.Errorf("totals = %v..%v, want 1200..1600",
			result.Document.EstimatedTotalMin, result.Document.EstimatedTotalMax)
	}
}

func TestRunRemoveAllItemsZeroesTotals(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items/demo001", Operation: OperationRemove},
		{JSONPath: "/estimate_items/floor001", Operation: OperationRemove},
	})

	if len(result.Document.EstimateItems) != 0 {
		t.Fatalf("item count = %d, want 0", len(result.Document.EstimateItems))
	}
	if result.Document.EstimatedTotalMin != 0 || result.Document.EstimatedTotalMax != 0 {
		t.Errorf("totals = %v..%v, want exactly 0..0",
			result.Document.EstimatedTotalMin, result.Document.EstimatedTotalMax)
	}
}

func TestRunAddItemPreservesExplicitUid(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items", Operation: OperationAdd, NewValue: map[string]interface{}{
			"uid":            "new001",
			"description":    "Countertops",
			"category":       "materials",
			"cost_range_min": float64(1000),
			"cost_range_max": float64(1500),
		}},
	})

	if !result.Outcomes[0].Success {
		t.Fatalf("add failed: %s", result.Outcomes[0].ErrorMessage)
	}
	items := result.Document.EstimateItems
	if len(items) != 3 {
		t.Fatalf("item count = %d, want 3", len(items))
	}
	if items[2].Uid != "new001" {
		t.Errorf("appended uid = %q, want new001", items[2].Uid)
	}
}

func TestRunAddItemRejectsDuplicateUid(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items", Operation: OperationAdd, NewValue: map[string]interface{}{
			"uid":            "demo001",
			"description":    "Second demolition pass",
			"category":       "labor",
			"cost_range_min": float64(500),
			"cost_range_max": float64(800),
		}},
	})

	if result.Outcomes[0].Success {
		t.Error("expected addition reusing an existing uid to be rejected")
	}
	if !strings.Contains(result.Outcomes[0].ErrorMessage, "demo001") {
		t.Errorf("error message %q should name the conflicting uid", result.Outcomes[0].ErrorMessage)
	}
	items := result.Document.EstimateItems
	if len(items) != 2 {
		t.Fatalf("item count = %d, want 2", len(items))
	}
	seen := map[string]int{}
	for _, item := range items {
		seen[item.Uid]++
	}
	if seen["demo001"] != 1 {
		t.Errorf("uid demo001 appears %d times, want 1", seen["demo001"])
	}
	// The rejected request must not disturb the derived totals either.
	if result.Document.EstimatedTotalMin != 2400 || result.Document.EstimatedTotalMax != 3400 {
		t.Errorf("totals = %v..%v, want 2400..3400",
			result.Document.EstimatedTotalMin, result.Document.EstimatedTotalMax)
	}
}

func TestRunAddItemSynthesizesUniqueUid(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items", Operation: OperationAdd, NewValue: map[string]interface{}{
			"description":    "Countertops",
			"category":       "materials",
			"cost_range_min": float64(1000),
			"cost_range_max": float64(1500),
		}},
	})

	items := result.Document.EstimateItems
	if len(items) != 3 {
		t.Fatalf("item count = %d, want 3", len(items))
	}
	added := items[2].Uid
	if added == "" {
		t.Fatal("expected synthesized uid")
	}
	seen := map[string]int{}
	for _, item := range items {
		seen[item.Uid]++
	}
	if seen[added] != 1 {
		t.Errorf("uid %q appears %d times, want 1", added, seen[added])
	}
}

func TestRunUnknownUidLeavesItemsUntouched(t *testing.T) {
	doc := demoEstimate()
	result := NewRunner().Run(doc, []Request{
		{JSONPath: "/estimate_items/ghost/cost_range_min", Operation: OperationReplace, NewValue: float64(99)},
		{JSONPath: "/project_description", Operation: OperationReplace, NewValue: "Updated description"},
	})

	if result.Outcomes[0].Success {
		t.Error("outcomes[0].Success = true, want false")
	}
	if !strings.Contains(result.Outcomes[0].ErrorMessage, "ghost") {
		t.Errorf("error message %q should name the missing uid", result.Outcomes[0].ErrorMessage)
	}
	if !result.Outcomes[1].Success {
		t.Errorf("outcomes[1] failed: %s", result.Outcomes[1].ErrorMessage)
	}
	// The failed request must not have touched any item.
	if len(result.Document.EstimateItems) != 2 {
		t.Fatalf("item count = %d, want 2", len(result.Document.EstimateItems))
	}
	for i, item := range doc.EstimateItems {
		if result.Document.EstimateItems[i] != item {
			t.Errorf("item[%d] changed by a rejected request", i)
		}
	}
	if result.Document.ProjectDescription != "Updated description" {
		t.Errorf("later valid request did not apply: %q", result.Document.ProjectDescription)
	}
}

func TestRunMixedBatchScenario(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items/demo001/cost_range_min", Operation: OperationReplace, NewValue: float64(1500)},
		{JSONPath: "/estimate_items", Operation: OperationAdd, NewValue: map[string]interface{}{
			"uid":            "new001",
			"description":    "Backsplash",
			"category":       "materials",
			"cost_range_min": float64(1000),
			"cost_range_max": float64(1500),
		}},
		{JSONPath: "/project_description", Operation: OperationReplace, NewValue: "Updated description"},
	})

	for i, o := range result.Outcomes {
		if !o.Success {
			t.Fatalf("outcomes[%d] failed: %s", i, o.ErrorMessage)
		}
	}
	doc := result.Document
	if len(doc.EstimateItems) != 3 {
		t.Fatalf("item count = %d, want 3", len(doc.EstimateItems))
	}
	if doc.EstimateItems[0].CostRangeMin != 1500 {
		t.Errorf("item[0].CostRangeMin = %v, want 1500", doc.EstimateItems[0].CostRangeMin)
	}
	if doc.EstimateItems[2].Uid != "new001" {
		t.Errorf("item[2].Uid = %q, want new001", doc.EstimateItems[2].Uid)
	}
	if doc.ProjectDescription != "Updated description" {
		t.Errorf("project description = %q", doc.ProjectDescription)
	}
	if doc.EstimatedTotalMin != 3700 || doc.EstimatedTotalMax != 4900 {
		t.Errorf("totals = %v..%v, want 3700..4900", doc.EstimatedTotalMin, doc.EstimatedTotalMax)
	}
}

func TestRunAddThenPatchSameUidInOneBatch(t *testing.T) {
	// The agent may pre-assign a uid and reference it later in the same
	// batch; resolution happens fresh per request, so this must work.
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items", Operation: OperationAdd, NewValue: map[string]interface{}{
			"uid":            "tile001",
			"description":    "Tiling",
			"category":       "labor",
			"cost_range_min": float64(300),
			"cost_range_max": float64(600),
		}},
		{JSONPath: "/estimate_items/tile001/cost_range_max", Operation: OperationReplace, NewValue: float64(700)},
	})

	for i, o := range result.Outcomes {
		if !o.Success {
			t.Fatalf("outcomes[%d] failed: %s", i, o.ErrorMessage)
		}
	}
	if got := result.Document.EstimateItems[2].CostRangeMax; got != 700 {
		t.Errorf("item[2].CostRangeMax = %v, want 700", got)
	}
}

func TestRunPositionsShiftAfterRemoval(t *testing.T) {
	// Removing the first item shifts floor001 to index 0; the follow-up
	// edit must still land on it.
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items/demo001", Operation: OperationRemove},
		{JSONPath: "/estimate_items/floor001/cost_range_min", Operation: OperationReplace, NewValue: float64(1300)},
	})

	for i, o := range result.Outcomes {
		if !o.Success {
			t.Fatalf("outcomes[%d] failed: %s", i, o.ErrorMessage)
		}
	}
	items := result.Document.EstimateItems
	if len(items) != 1 || items[0].Uid != "floor001" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].CostRangeMin != 1300 {
		t.Errorf("CostRangeMin = %v, want 1300", items[0].CostRangeMin)
	}
}

func TestRunTypeMismatchIsIsolated(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items/demo001/cost_range_min", Operation: OperationReplace, NewValue: "not a number"},
	})

	if result.Outcomes[0].Success {
		t.Error("expected type mismatch to be rejected")
	}
	if got := result.Document.EstimateItems[0].CostRangeMin; got != 1200 {
		t.Errorf("CostRangeMin = %v, want 1200 (unchanged)", got)
	}
}

func TestRunUidIsImmutable(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items/demo001/uid", Operation: OperationReplace, NewValue: "other"},
	})

	if result.Outcomes[0].Success {
		t.Error("expected uid replacement to be rejected")
	}
	if result.Document.EstimateItems[0].Uid != "demo001" {
		t.Errorf("uid = %q, want demo001", result.Document.EstimateItems[0].Uid)
	}
}

func TestRunMalformedAdditionRejected(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items", Operation: OperationAdd, NewValue: "][ this is hopeless"},
	})

	if result.Outcomes[0].Success {
		t.Error("expected malformed payload to be rejected")
	}
	if len(result.Document.EstimateItems) != 2 {
		t.Errorf("item count = %d, want 2", len(result.Document.EstimateItems))
	}
}

func TestRunLooseStringAddition(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/estimate_items", Operation: OperationAdd,
			NewValue: `{description: Drywall repair, category: labor, cost_range_min: 250, cost_range_max: 400}`},
	})

	if !result.Outcomes[0].Success {
		t.Fatalf("loose addition failed: %s", result.Outcomes[0].ErrorMessage)
	}
	added := result.Document.EstimateItems[2]
	if added.Description != "Drywall repair" || added.CostRangeMax != 400 {
		t.Errorf("unexpected normalized item: %+v", added)
	}
}

func TestRunTopLevelRemoveClearsField(t *testing.T) {
	doc := demoEstimate()
	doc.RiskFactors = []string{"permit delays"}
	result := NewRunner().Run(doc, []Request{
		{JSONPath: "/risk_factors", Operation: OperationRemove},
	})

	if !result.Outcomes[0].Success {
		t.Fatalf("remove failed: %s", result.Outcomes[0].ErrorMessage)
	}
	if len(result.Document.RiskFactors) != 0 {
		t.Errorf("risk factors = %v, want empty", result.Document.RiskFactors)
	}
}

func TestRunUnknownTopLevelFieldRejected(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), []Request{
		{JSONPath: "/no_such_field", Operation: OperationReplace, NewValue: "x"},
	})

	if result.Outcomes[0].Success {
		t.Error("expected unknown field to be rejected")
	}
}

func TestRecalculateTotalsIdempotent(t *testing.T) {
	doc := demoEstimate()
	RecalculateTotals(doc)
	min, max := doc.EstimatedTotalMin, doc.EstimatedTotalMax
	RecalculateTotals(doc)
	if doc.EstimatedTotalMin != min || doc.EstimatedTotalMax != max {
		t.Errorf("second recalculation changed totals: %v..%v vs %v..%v",
			min, max, doc.EstimatedTotalMin, doc.EstimatedTotalMax)
	}
}

func TestRecalculateTotalsEmptyIsZero(t *testing.T) {
	doc := &entity.Estimate{EstimatedTotalMin: 9999, EstimatedTotalMax: 12000}
	RecalculateTotals(doc)
	if doc.EstimatedTotalMin != 0 || doc.EstimatedTotalMax != 0 {
		t.Errorf("totals = %v..%v, want 0..0", doc.EstimatedTotalMin, doc.EstimatedTotalMax)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	result := NewRunner().Run(demoEstimate(), nil)
	if len(result.Outcomes) != 0 {
		t.Errorf("outcomes length = %d, want 0", len(result.Outcomes))
	}
	if len(result.Document.EstimateItems) != 2 {
		t.Errorf("item count = %d, want 2", len(result.Document.EstimateItems))
	}
}
