// Package reconcile turns planned ingredient usages into actual stock
// deductions, with partial-fulfillment reporting and a durable audit trail,
// and applies single manual stock adjustments under the same invariants.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Engine applies reconciliation batches and manual adjustments against a
// Ledger Store. All writes for one call happen in a single transaction.
type Engine struct {
	store types.Store
}

// NewEngine creates an engine over the given store. The store must be
// attached before the engine is used.
func NewEngine(store types.Store) *Engine {
	return &Engine{store: store}
}

// need is one aggregated requirement for a catalog item.
type need struct {
	itemID   int64
	quantity float64
	unit     string
	name     string
}

// Reconcile matches the planned usages against current stock, deducts what
// can be fully fulfilled, and reports the rest as shortages.
//
// Entries with an unknown item reference are classified as shortages
// immediately and never reach the store. Entries naming the same item are
// summed into one requirement, in first-encounter order, before any stock
// check. An item whose available quantity is below the summed requirement
// is reported as a partial shortage and nothing is deducted for it.
//
// All deductions and their CONSUME movements are applied in one
// transaction: a storage error rolls back the whole batch and is returned
// as a hard failure. Shortages are normal results, never errors.
//
// Reconcile is not idempotent. Calling it twice with the same plan deducts
// stock twice; callers must ensure at-most-once invocation per planning
// decision.
func (e *Engine) Reconcile(planned []types.PlannedIngredient) (*types.ReconciliationResult, error) {
	result := &types.ReconciliationResult{}

	// Validate and aggregate before touching the store.
	var order []int64
	needs := make(map[int64]*need)
	for _, p := range planned {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("planned ingredient %q: %w", p.DisplayName, err)
		}
		if p.Quantity == 0 {
			continue
		}

		id, known := p.Ref.ID()
		if !known {
			result.Short = append(result.Short, types.ShortageLine{
				Name:     p.DisplayName,
				Required: p.Quantity,
				Unit:     p.Unit,
				Reason:   types.ShortageNotTracked,
			})
			continue
		}

		n, ok := needs[id]
		if !ok {
			n = &need{itemID: id}
			needs[id] = n
			order = append(order, id)
		}
		n.quantity += p.Quantity
		if n.unit == "" {
			n.unit = p.Unit
		}
		if n.name == "" {
			n.name = p.DisplayName
		}
	}

	if len(order) == 0 {
		return result, nil
	}

	err := e.store.Transact(func(l types.Ledger) error {
		for _, id := range order {
			n := needs[id]
			name, err := resolveName(l, n)
			if err != nil {
				return err
			}

			available, err := l.GetStock(id)
			if errors.Is(err, types.ErrNotFound) {
				result.Short = append(result.Short, types.ShortageLine{
					Name:     name,
					Required: n.quantity,
					Unit:     n.unit,
					Reason:   types.ShortageOutOfStock,
				})
				continue
			}
			if err != nil {
				return err
			}

			if available < n.quantity {
				// Under-stock is reported, not consumed: the available
				// quantity stays untouched.
				result.Short = append(result.Short, types.ShortageLine{
					Name:      name,
					Required:  n.quantity,
					Available: available,
					Unit:      n.unit,
					Reason:    types.ShortageInsufficient,
				})
				continue
			}

			// Full fulfillment: deduct, removing the entry when it lands
			// on exactly zero, and log one CONSUME movement.
			if err := l.SetStock(id, available-n.quantity); err != nil {
				return err
			}
			if _, err := l.AppendMovement(&types.Movement{
				ItemID:   id,
				Kind:     types.KindConsume,
				Quantity: n.quantity,
				Source:   types.SourcePlanner,
			}); err != nil {
				return err
			}
			result.Used = append(result.Used, types.UsageLine{
				Name:     name,
				Quantity: n.quantity,
				Unit:     n.unit,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply reconciliation: %w", err)
	}
	return result, nil
}

// resolveName falls back to the catalog name when the plan supplied no
// display name. Report lines for items missing from the catalog keep the
// empty name rather than failing the batch.
func resolveName(l types.Ledger, n *need) (string, error) {
	if n.name != "" {
		return n.name, nil
	}
	item, err := l.GetItem(n.itemID)
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return item.Name, nil
}
