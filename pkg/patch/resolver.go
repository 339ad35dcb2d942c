package patch

import (
	"fmt"

	"contractor-estimate-be/internal/entity"
)

// resolveItemIndex maps a uid to the item's current array position. It must
// be called against the live snapshot immediately before applying, never
// cached: earlier additions and removals in the same batch shift positions.
func resolveItemIndex(doc *entity.Estimate, uid string) (int, error) {
	for i, item := range doc.EstimateItems {
		if item.Uid == uid {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no item with uid %q", ErrUnknownLineItem, uid)
}
