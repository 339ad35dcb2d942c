package patch

import (
	"errors"
	"testing"
)

func TestNormalizeItemFromMap(t *testing.T) {
	item, err := NormalizeItem(map[string]interface{}{
		"uid":            "demo001",
		"description":    "Demolition work",
		"category":       "labor",
		"cost_range_min": float64(1200),
		"cost_range_max": float64(1800),
		"quantity":       float64(3),
	})
	if err != nil {
		t.Fatalf("NormalizeItem returned error: %v", err)
	}
	if item.Uid != "demo001" {
		t.Errorf("uid = %q, want demo001 (pre-assigned uid must be preserved verbatim)", item.Uid)
	}
	if item.CostRangeMin != 1200 || item.CostRangeMax != 1800 {
		t.Errorf("cost range = %v..%v, want 1200..1800", item.CostRangeMin, item.CostRangeMax)
	}
	if item.Quantity == nil || *item.Quantity != 3 {
		t.Errorf("quantity = %v, want 3", item.Quantity)
	}
}

func TestNormalizeItemSynthesizesUid(t *testing.T) {
	a, err := NormalizeItem(map[string]interface{}{
		"description":    "Flooring",
		"category":       "materials",
		"cost_range_min": float64(100),
		"cost_range_max": float64(200),
	})
	if err != nil {
		t.Fatalf("NormalizeItem returned error: %v", err)
	}
	b, err := NormalizeItem(map[string]interface{}{
		"description":    "Flooring",
		"category":       "materials",
		"cost_range_min": float64(100),
		"cost_range_max": float64(200),
	})
	if err != nil {
		t.Fatalf("NormalizeItem returned error: %v", err)
	}
	if a.Uid == "" || b.Uid == "" {
		t.Fatal("expected a uid to be synthesized")
	}
	if a.Uid == b.Uid {
		t.Errorf("synthesized uids collide: %q", a.Uid)
	}
}

func TestNormalizeItemCoercesNumericStrings(t *testing.T) {
	item, err := NormalizeItem(map[string]interface{}{
		"description":    "Painting",
		"category":       "labor",
		"cost_range_min": "450",
		"cost_range_max": " 900 ",
	})
	if err != nil {
		t.Fatalf("NormalizeItem returned error: %v", err)
	}
	if item.CostRangeMin != 450 || item.CostRangeMax != 900 {
		t.Errorf("cost range = %v..%v, want 450..900", item.CostRangeMin, item.CostRangeMax)
	}
}

func TestNormalizeItemFromString(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "strict JSON",
			payload: `{"description": "Roof repair", "category": "labor", "cost_range_min": 500, "cost_range_max": 800}`,
		},
		{
			name:    "bare keys",
			payload: `{description: "Roof repair", category: "labor", cost_range_min: 500, cost_range_max: 800}`,
		},
		{
			name:    "bare keys and bare values",
			payload: `{description: Roof repair, category: labor, cost_range_min: 500, cost_range_max: 800}`,
		},
		{
			name:    "escaped quotes survive repair",
			payload: `{description: "Roof \"flat\" repair", category: labor, cost_range_min: 500, cost_range_max: 800}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NormalizeItem(tt.payload)
			if err != nil {
				t.Fatalf("NormalizeItem(%q) returned error: %v", tt.payload, err)
			}
			if item.Category != "labor" {
				t.Errorf("category = %q, want labor", item.Category)
			}
			if item.CostRangeMin != 500 || item.CostRangeMax != 800 {
				t.Errorf("cost range = %v..%v, want 500..800", item.CostRangeMin, item.CostRangeMax)
			}
			if item.Uid == "" {
				t.Error("expected synthesized uid")
			}
		})
	}
}

func TestNormalizeItemFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
	}{
		{name: "nil payload", payload: nil},
		{name: "unparseable string", payload: "not even close to an object"},
		{
			name: "missing description",
			payload: map[string]interface{}{
				"category":       "labor",
				"cost_range_min": float64(1),
				"cost_range_max": float64(2),
			},
		},
		{
			name: "missing category",
			payload: map[string]interface{}{
				"description":    "x",
				"cost_range_min": float64(1),
				"cost_range_max": float64(2),
			},
		},
		{
			name: "missing cost bounds",
			payload: map[string]interface{}{
				"description": "x",
				"category":    "labor",
			},
		},
		{
			name: "non-numeric cost",
			payload: map[string]interface{}{
				"description":    "x",
				"category":       "labor",
				"cost_range_min": "a lot",
				"cost_range_max": float64(2),
			},
		},
		{
			name: "negative cost",
			payload: map[string]interface{}{
				"description":    "x",
				"category":       "labor",
				"cost_range_min": float64(-5),
				"cost_range_max": float64(2),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeItem(tt.payload)
			if !errors.Is(err, ErrMalformedLineItem) {
				t.Errorf("NormalizeItem error = %v, want ErrMalformedLineItem", err)
			}
		})
	}
}

func TestRepairLooseJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare key",
			in:   `{description: "x"}`,
			want: `{"description": "x"}`,
		},
		{
			name: "bare multi-word value",
			in:   `{description: Demolition work}`,
			want: `{"description": "Demolition work"}`,
		},
		{
			name: "numbers and literals untouched",
			in:   `{min: 12.5, active: true, note: null}`,
			want: `{"min": 12.5, "active": true, "note": null}`,
		},
		{
			name: "quoted content preserved verbatim",
			in:   `{note: "keep: this, {verbatim}"}`,
			want: `{"note": "keep: this, {verbatim}"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairLooseJSON(tt.in)
			if got != tt.want {
				t.Errorf("repairLooseJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
