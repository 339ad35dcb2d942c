package patch

import (
	"fmt"

	"contractor-estimate-be/internal/entity"
)

// applyOperation applies exactly one positional operation to a snapshot and
// returns a new snapshot; the input document is never touched. Standard
// positional-edit semantics: replace and remove require the target to exist,
// add on the items collection appends.
func applyOperation(doc *entity.Estimate, op positionalOp) (*entity.Estimate, error) {
	next := doc.Clone()

	switch op.scope {
	case scopeItems:
		if op.op != OperationAdd || op.item == nil {
			return nil, fmt.Errorf("%w: items collection only accepts additions", ErrPatchApplicationFailed)
		}
		next.EstimateItems = append(next.EstimateItems, *op.item)
		return next, nil

	case scopeItem:
		if op.index < 0 || op.index >= len(next.EstimateItems) {
			return nil, fmt.Errorf("%w: item index %d out of range", ErrPatchApplicationFailed, op.index)
		}
		next.EstimateItems = append(next.EstimateItems[:op.index], next.EstimateItems[op.index+1:]...)
		return next, nil

	case scopeItemField:
		if op.index < 0 || op.index >= len(next.EstimateItems) {
			return nil, fmt.Errorf("%w: item index %d out of range", ErrPatchApplicationFailed, op.index)
		}
		if err := setItemField(&next.EstimateItems[op.index], op); err != nil {
			return nil, err
		}
		return next, nil

	default: // scopeTopLevel
		if err := setTopLevelField(next, op); err != nil {
			return nil, err
		}
		return next, nil
	}
}

// setItemField mutates one field of an item that lives inside an already
// cloned snapshot. Remove resets the field to its zero value.
func setItemField(item *entity.EstimateItem, op positionalOp) error {
	remove := op.op == OperationRemove

	switch op.field {
	case "uid":
		// Identity is assigned once and never reassigned.
		return fmt.Errorf("%w: uid is immutable", ErrPatchApplicationFailed)
	case "description":
		return setStringField(&item.Description, op, remove)
	case "category":
		return setStringField(&item.Category, op, remove)
	case "subcategory":
		return setStringField(&item.Subcategory, op, remove)
	case "unit":
		return setStringField(&item.Unit, op, remove)
	case "assumptions":
		return setStringField(&item.Assumptions, op, remove)
	case "confidence_level":
		return setStringField(&item.ConfidenceLevel, op, remove)
	case "notes":
		return setStringField(&item.Notes, op, remove)
	case "cost_range_min":
		return setFloatField(&item.CostRangeMin, op, remove)
	case "cost_range_max":
		return setFloatField(&item.CostRangeMax, op, remove)
	case "quantity":
		if remove {
			item.Quantity = nil
			return nil
		}
		f, ok := asFloat(op.value)
		if !ok {
			return fmt.Errorf("%w: quantity %v is not numeric", ErrPatchApplicationFailed, op.value)
		}
		item.Quantity = &f
		return nil
	default:
		return fmt.Errorf("%w: unknown item field %q", ErrPatchApplicationFailed, op.field)
	}
}

func setTopLevelField(doc *entity.Estimate, op positionalOp) error {
	remove := op.op == OperationRemove

	switch op.field {
	case "project_description":
		return setStringField(&doc.ProjectDescription, op, remove)
	case "estimated_duration":
		return setStringField(&doc.EstimatedDuration, op, remove)
	case "confidence_level":
		return setStringField(&doc.ConfidenceLevel, op, remove)
	case "estimated_total_min":
		return setFloatField(&doc.EstimatedTotalMin, op, remove)
	case "estimated_total_max":
		return setFloatField(&doc.EstimatedTotalMax, op, remove)
	case "key_considerations":
		return setStringListField(&doc.KeyConsiderations, op, remove)
	case "next_steps":
		return setStringListField(&doc.NextSteps, op, remove)
	case "missing_information":
		return setStringListField(&doc.MissingInformation, op, remove)
	case "risk_factors":
		return setStringListField(&doc.RiskFactors, op, remove)
	case ItemsCollection:
		// A Replace or Remove aimed at the whole collection is not a patch
		// the engine supports; wholesale item replacement is what the full
		// regeneration path is for.
		return fmt.Errorf("%w: the items collection cannot be edited as a single field", ErrPatchApplicationFailed)
	default:
		return fmt.Errorf("%w: unknown document field %q", ErrPatchApplicationFailed, op.field)
	}
}

func setStringField(target *string, op positionalOp, remove bool) error {
	if remove {
		*target = ""
		return nil
	}
	s, ok := op.value.(string)
	if !ok {
		return fmt.Errorf("%w: field %q expects a string, got %T", ErrPatchApplicationFailed, op.field, op.value)
	}
	*target = s
	return nil
}

func setFloatField(target *float64, op positionalOp, remove bool) error {
	if remove {
		*target = 0
		return nil
	}
	f, ok := asFloat(op.value)
	if !ok {
		return fmt.Errorf("%w: field %q expects a number, got %v", ErrPatchApplicationFailed, op.field, op.value)
	}
	*target = f
	return nil
}

func setStringListField(target *[]string, op positionalOp, remove bool) error {
	if remove {
		*target = nil
		return nil
	}
	switch v := op.value.(type) {
	case []string:
		list := make([]string, len(v))
		copy(list, v)
		*target = list
		return nil
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, el := range v {
			s, ok := el.(string)
			if !ok {
				return fmt.Errorf("%w: field %q expects a list of strings", ErrPatchApplicationFailed, op.field)
			}
			list = append(list, s)
		}
		*target = list
		return nil
	case string:
		// A single string replaces the list with one entry; agents do this
		// for one-line considerations.
		*target = []string{v}
		return nil
	default:
		return fmt.Errorf("%w: field %q expects a list of strings, got %T", ErrPatchApplicationFailed, op.field, op.value)
	}
}
