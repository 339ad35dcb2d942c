// Package patch is the reconciliation engine for estimate documents. It takes
// a batch of semantically-addressed edit requests produced by the upstream
// agent (items addressed by uid, never by array position), converts each into
// a positional operation against the current document snapshot, applies them
// in order while isolating per-request failures, and recomputes the derived
// totals.
package patch

import (
	"strings"

	"contractor-estimate-be/internal/entity"
)

// Operation is the edit verb carried on the wire.
type Operation string

const (
	OperationAdd     Operation = "Add"
	OperationRemove  Operation = "Remove"
	OperationReplace Operation = "Replace"
)

// ItemsCollection is the document field holding the line items. Paths into
// items look like /estimate_items/<uid> or /estimate_items/<uid>/<field>.
const ItemsCollection = "estimate_items"

// Request is one semantically-addressed edit instruction from the agent.
// NewValue is a scalar for field updates, a line-item payload (object or
// loosely formatted string) for additions, and nil for removals.
type Request struct {
	JSONPath  string      `json:"json_path"`
	Operation Operation   `json:"operation"`
	NewValue  interface{} `json:"new_value"`
}

// Outcome reports the result of exactly one request. Outcomes are positional:
// outcomes[i] belongs to requests[i].
type Outcome struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// BatchResult is the final document after the whole batch plus the ordered
// outcome list.
type BatchResult struct {
	Document *entity.Estimate `json:"document"`
	Outcomes []Outcome        `json:"outcomes"`
}

// Applied reports how many requests in the batch succeeded.
func (r *BatchResult) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// splitPath breaks "/estimate_items/abc/cost_range_min" into its segments.
// Empty segments from leading/trailing slashes are dropped.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
