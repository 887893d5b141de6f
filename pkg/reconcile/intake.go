package reconcile

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// IntakeLine is one purchased item from a scanned bill.
type IntakeLine struct {
	Name     string
	Quantity float64
	Unit     string
}

// Intake books a scanned bill: every line becomes one PURCHASE movement
// and its quantity is added to stock. Items the catalog does not know are
// registered first, under the name and unit printed on the bill. The whole
// bill commits in one transaction; a bad line books nothing.
func (e *Engine) Intake(lines []IntakeLine) ([]*types.Movement, error) {
	for _, line := range lines {
		if line.Name == "" {
			return nil, fmt.Errorf("intake: %w", types.ErrInvalidName)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("intake %q: %w", line.Name, types.ErrInvalidQuantity)
		}
	}

	movements := make([]*types.Movement, 0, len(lines))
	err := e.store.Transact(func(l types.Ledger) error {
		for _, line := range lines {
			item, err := l.GetItemByName(line.Name)
			if errors.Is(err, types.ErrNotFound) {
				item = &types.CatalogItem{Name: line.Name, Unit: line.Unit}
				if _, err := l.PutItem(item); err != nil {
					return fmt.Errorf("register %q: %w", line.Name, err)
				}
			} else if err != nil {
				return fmt.Errorf("look up %q: %w", line.Name, err)
			}

			current, err := l.GetStock(item.ItemID)
			if errors.Is(err, types.ErrNotFound) {
				current = 0
			} else if err != nil {
				return err
			}
			if err := l.SetStock(item.ItemID, current+line.Quantity); err != nil {
				return err
			}

			movement := &types.Movement{
				ItemID:   item.ItemID,
				Kind:     types.KindPurchase,
				Quantity: line.Quantity,
				Source:   types.SourceBillScan,
			}
			if _, err := l.AppendMovement(movement); err != nil {
				return err
			}
			movements = append(movements, movement)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("book bill: %w", err)
	}
	return movements, nil
}
