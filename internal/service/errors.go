package service

import (
	"errors"
	"fmt"
)

// ErrNotPurchasable is returned when the attribute selection does not
// resolve to a purchasable variation (partial selection or no matching
// combination).
var ErrNotPurchasable = errors.New("selection does not match a purchasable variation")

// InsufficientStockError reports that a requested quantity exceeds the
// resolved offer's stock. Available carries the offer's stock count so the
// caller can suggest a correction.
type InsufficientStockError struct {
	ItemID    string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.ItemID, e.Available)
}
