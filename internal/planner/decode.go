// Package planner is the Planning Source boundary: it turns external plan
// payloads (AI responses or plan files) into validated PlannedIngredient
// values. Malformed shapes are rejected here, before anything reaches the
// reconciliation engine.
package planner

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// ErrMalformedPlan is wrapped by every decode failure.
var ErrMalformedPlan = errors.New("malformed plan payload")

// wireIngredient is the wire shape a planning source supplies:
// {item_id: integer | -1, quantity: number, unit: string, display_name: string}.
// Pointer fields distinguish "absent" from zero values.
type wireIngredient struct {
	ItemID      *int64   `json:"item_id"`
	Quantity    *float64 `json:"quantity"`
	Unit        string   `json:"unit"`
	DisplayName string   `json:"display_name"`
}

// DecodePlan decodes a JSON array of wire ingredients into tagged
// PlannedIngredient values. item_id -1 (or any non-positive value) decodes
// to an unknown reference. Entries missing item_id or quantity, or
// carrying a negative quantity, fail the whole payload.
func DecodePlan(data []byte) ([]types.PlannedIngredient, error) {
	var wire []wireIngredient
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}

	planned := make([]types.PlannedIngredient, 0, len(wire))
	for i, w := range wire {
		p, err := decodeIngredient(w)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d (%q): %v", ErrMalformedPlan, i, w.DisplayName, err)
		}
		planned = append(planned, p)
	}
	return planned, nil
}

func decodeIngredient(w wireIngredient) (types.PlannedIngredient, error) {
	if w.ItemID == nil {
		return types.PlannedIngredient{}, errors.New("missing item_id")
	}
	if w.Quantity == nil {
		return types.PlannedIngredient{}, errors.New("missing quantity")
	}
	if *w.Quantity < 0 {
		return types.PlannedIngredient{}, errors.New("negative quantity")
	}

	return types.PlannedIngredient{
		Ref:         types.DecodeItemRef(*w.ItemID),
		Quantity:    *w.Quantity,
		Unit:        w.Unit,
		DisplayName: w.DisplayName,
	}, nil
}
