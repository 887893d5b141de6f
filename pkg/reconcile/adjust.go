package reconcile

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Adjustment is a single signed stock movement triggered by direct operator
// input. PURCHASE adds stock; CONSUME and WASTE subtract it.
type Adjustment struct {
	ItemID    int64
	Kind      string
	Quantity  float64
	UnitPrice float64 // purchases only
	Vendor    string  // purchases only
	Source    string  // defaults to SourceManual
}

// Adjust applies one adjustment and appends exactly one movement, all in
// one transaction.
//
// PURCHASE creates the stock entry when absent and refreshes the catalog
// item's last vendor and price. CONSUME and WASTE deduct; a result of zero
// or less removes the stock entry entirely (clamped at removal, never
// negative).
//
// Validation failures (non-positive quantity, unknown kind, item not in
// the catalog) are returned before any write.
func (e *Engine) Adjust(adj Adjustment) (*types.Movement, error) {
	if !types.ValidKind(adj.Kind) {
		return nil, fmt.Errorf("adjust: %w: %q", types.ErrInvalidKind, adj.Kind)
	}
	if adj.Quantity <= 0 {
		return nil, fmt.Errorf("adjust: %w", types.ErrInvalidQuantity)
	}

	source := adj.Source
	if source == "" {
		source = types.SourceManual
	}

	movement := &types.Movement{
		ItemID:    adj.ItemID,
		Kind:      adj.Kind,
		Quantity:  adj.Quantity,
		UnitPrice: adj.UnitPrice,
		Vendor:    adj.Vendor,
		Source:    source,
	}

	err := e.store.Transact(func(l types.Ledger) error {
		if _, err := l.GetItem(adj.ItemID); err != nil {
			if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
				return fmt.Errorf("item %d: %w", adj.ItemID, types.ErrItemNotFound)
			}
			return err
		}

		current, err := l.GetStock(adj.ItemID)
		if errors.Is(err, types.ErrNotFound) {
			current = 0
		} else if err != nil {
			return err
		}

		switch adj.Kind {
		case types.KindPurchase:
			if err := l.SetStock(adj.ItemID, current+adj.Quantity); err != nil {
				return err
			}
			if err := l.RefreshPurchaseInfo(adj.ItemID, adj.Vendor, adj.UnitPrice); err != nil {
				return err
			}
		default: // CONSUME, WASTE
			// A deduction to zero or below removes the entry; negative
			// stock is never tracked.
			if err := l.SetStock(adj.ItemID, current-adj.Quantity); err != nil {
				return err
			}
		}

		_, err = l.AppendMovement(movement)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}
