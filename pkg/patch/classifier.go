package patch

// patchKind is the category a request falls into. Exactly one kind applies to
// every request; unrecognized paths fall through to kindTopLevelUpdate, so
// classification alone never validates a path.
type patchKind int

const (
	kindItemFieldUpdate patchKind = iota
	kindItemRemoval
	kindItemAddition
	kindTopLevelUpdate
)

func (k patchKind) String() string {
	switch k {
	case kindItemFieldUpdate:
		return "item_field_update"
	case kindItemRemoval:
		return "item_removal"
	case kindItemAddition:
		return "item_addition"
	default:
		return "top_level_update"
	}
}

// classify inspects path shape and operation. Priority order matters:
// an item-field path wins regardless of operation, a Remove on exactly
// /estimate_items/<uid> is an item removal, an Add on the bare collection is
// an addition, everything else is a top-level update.
func classify(req Request) patchKind {
	segments := splitPath(req.JSONPath)

	if len(segments) == 3 && segments[0] == ItemsCollection {
		return kindItemFieldUpdate
	}
	if req.Operation == OperationRemove && len(segments) == 2 && segments[0] == ItemsCollection {
		return kindItemRemoval
	}
	if req.Operation == OperationAdd && len(segments) == 1 && segments[0] == ItemsCollection {
		return kindItemAddition
	}
	return kindTopLevelUpdate
}
