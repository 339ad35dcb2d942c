package patch

import (
	"fmt"

	"contractor-estimate-be/internal/entity"
)

// pathScope says what part of the document a positional operation targets.
type pathScope int

const (
	scopeTopLevel  pathScope = iota // a named top-level field
	scopeItems                      // the items collection itself (append)
	scopeItem                       // one whole item by index
	scopeItemField                  // one field of one item by index
)

// positionalOp is a fully resolved edit: uid translated to an index, payload
// normalized. It is only valid against the snapshot it was transformed from,
// so transform and apply must stay adjacent.
type positionalOp struct {
	op    Operation
	scope pathScope
	index int
	field string
	value interface{}
	item  *entity.EstimateItem
}

// affectsTotals reports whether applying this operation can change the
// derived min/max totals.
func (p positionalOp) affectsTotals() bool {
	switch p.scope {
	case scopeItems, scopeItem:
		return true
	case scopeItemField:
		return p.field == "cost_range_min" || p.field == "cost_range_max"
	default:
		return false
	}
}

// transform converts one classified request into a positional operation
// against the given snapshot. Each category has its own rules; any failure is
// typed and aborts only this request.
func transform(doc *entity.Estimate, req Request, kind patchKind) (positionalOp, error) {
	segments := splitPath(req.JSONPath)

	switch kind {
	case kindItemFieldUpdate:
		index, err := resolveItemIndex(doc, segments[1])
		if err != nil {
			return positionalOp{}, err
		}
		return positionalOp{
			op:    req.Operation,
			scope: scopeItemField,
			index: index,
			field: segments[2],
			value: req.NewValue,
		}, nil

	case kindItemRemoval:
		index, err := resolveItemIndex(doc, segments[1])
		if err != nil {
			return positionalOp{}, err
		}
		return positionalOp{op: OperationRemove, scope: scopeItem, index: index}, nil

	case kindItemAddition:
		item, err := NormalizeItem(req.NewValue)
		if err != nil {
			return positionalOp{}, err
		}
		// Uids address items; a payload reusing an existing uid would leave
		// the new item unreachable behind the first match.
		if _, err := resolveItemIndex(doc, item.Uid); err == nil {
			return positionalOp{}, fmt.Errorf("%w: an item with uid %q already exists", ErrPatchApplicationFailed, item.Uid)
		}
		// Always an append; arbitrary insertion positions are not supported
		// because item order carries no meaning.
		return positionalOp{op: OperationAdd, scope: scopeItems, item: item}, nil

	default: // kindTopLevelUpdate
		if len(segments) != 1 {
			return positionalOp{}, fmt.Errorf("%w: %q is not a top-level field path", ErrInvalidPath, req.JSONPath)
		}
		op := positionalOp{
			op:    req.Operation,
			scope: scopeTopLevel,
			field: segments[0],
		}
		if req.Operation != OperationRemove {
			op.value = req.NewValue
		}
		return op, nil
	}
}
