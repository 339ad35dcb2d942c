package patch

import "contractor-estimate-be/internal/entity"

// Runner folds an ordered batch of edit requests over successive document
// snapshots. Failures are isolated per request: a bad uid reference in one
// request must not discard unrelated valid edits, so there is no rollback and
// no retry — each request goes Pending → Applied or Pending → Rejected and
// the fold continues from the last good snapshot.
type Runner struct{}

func NewRunner() *Runner {
	return &Runner{}
}

// Run applies the batch and returns the final document plus one outcome per
// request, in input order. The input document is never mutated. Totals are
// recalculated once more at the end; the recalculation is idempotent so this
// is safe even when the last request already triggered it.
func (r *Runner) Run(doc *entity.Estimate, requests []Request) *BatchResult {
	current := doc.Clone()
	outcomes := make([]Outcome, 0, len(requests))

	for _, req := range requests {
		next, err := r.applyOne(current, req)
		if err != nil {
			outcomes = append(outcomes, Outcome{Success: false, ErrorMessage: err.Error()})
			continue
		}
		current = next
		outcomes = append(outcomes, Outcome{Success: true})
	}

	RecalculateTotals(current)
	return &BatchResult{Document: current, Outcomes: outcomes}
}

// applyOne runs classify → transform → apply for a single request. Transform
// and apply stay adjacent on the same snapshot; positional output is never
// reused across requests.
func (r *Runner) applyOne(doc *entity.Estimate, req Request) (*entity.Estimate, error) {
	kind := classify(req)

	op, err := transform(doc, req, kind)
	if err != nil {
		return nil, err
	}

	next, err := applyOperation(doc, op)
	if err != nil {
		return nil, err
	}

	if op.affectsTotals() {
		RecalculateTotals(next)
	}
	return next, nil
}

// RecalculateTotals derives the document's min/max totals from the current
// item set. Pure and idempotent. An empty item list yields exactly zero
// totals rather than whatever stale figure the document carried before —
// a batch that removes every item must visibly zero the summary.
func RecalculateTotals(doc *entity.Estimate) {
	var min, max float64
	for _, item := range doc.EstimateItems {
		min += item.CostRangeMin
		max += item.CostRangeMax
	}
	doc.EstimatedTotalMin = min
	doc.EstimatedTotalMax = max
}
