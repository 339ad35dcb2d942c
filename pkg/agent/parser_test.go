package agent

import "testing"

func TestParseDecisionResponsePatch(t *testing.T) {
	response := `{"action": "patch", "patches": [{"json_path": "/estimate_items/demo001/cost_range_min", "operation": "Replace", "new_value": 1500}], "reply": "Updated the demolition cost."}`

	decision := parseDecisionResponse(response, "make demolition 1500")

	if decision.Mode != ModePatch {
		t.Fatalf("mode = %q, want patch", decision.Mode)
	}
	if len(decision.Patches) != 1 {
		t.Fatalf("patches = %d, want 1", len(decision.Patches))
	}
	p := decision.Patches[0]
	if p.JSONPath != "/estimate_items/demo001/cost_range_min" || p.Operation != "Replace" {
		t.Errorf("unexpected patch: %+v", p)
	}
}

func TestParseDecisionResponseFencedJSON(t *testing.T) {
	response := "```json\n{\"action\": \"answer\", \"reply\": \"The total covers labor and materials.\"}\n```"

	decision := parseDecisionResponse(response, "what does the total include?")

	if decision.Mode != ModeAnswer {
		t.Fatalf("mode = %q, want answer", decision.Mode)
	}
	if decision.Reply != "The total covers labor and materials." {
		t.Errorf("reply = %q", decision.Reply)
	}
}

func TestParseDecisionResponseWrappedInProse(t *testing.T) {
	response := `Sure, here is my decision: {"action": "regenerate", "reply": "Rebuild with a second floor."} Hope that helps!`

	decision := parseDecisionResponse(response, "add a second floor")

	if decision.Mode != ModeRegenerate {
		t.Fatalf("mode = %q, want regenerate", decision.Mode)
	}
}

func TestParseDecisionResponsePatchWithoutPatches(t *testing.T) {
	response := `{"action": "patch", "patches": [], "reply": "done"}`

	decision := parseDecisionResponse(response, "lower the costs")

	if decision.Mode != ModeRegenerate {
		t.Errorf("mode = %q, want regenerate fallback", decision.Mode)
	}
}

func TestParseDecisionResponseGarbage(t *testing.T) {
	decision := parseDecisionResponse("I could not decide anything useful here.", "remove the flooring item")

	if decision.Mode != ModeRegenerate {
		t.Fatalf("mode = %q, want regenerate", decision.Mode)
	}
	if decision.Reply != "remove the flooring item" {
		t.Errorf("reply = %q, want the original message carried forward", decision.Reply)
	}
}

func TestParseDecisionResponseUnknownAction(t *testing.T) {
	decision := parseDecisionResponse(`{"action": "dance", "reply": "!"}`, "hello")

	if decision.Mode != ModeRegenerate {
		t.Errorf("mode = %q, want regenerate", decision.Mode)
	}
}
