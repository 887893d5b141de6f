package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestDecodePlan(t *testing.T) {
	payload := []byte(`[
		{"item_id": 3, "quantity": 2, "unit": "kg", "display_name": "Rice"},
		{"item_id": -1, "quantity": 0.01, "unit": "kg", "display_name": "Saffron"},
		{"item_id": 5, "quantity": 0, "unit": "L", "display_name": "Milk"}
	]`)

	planned, err := DecodePlan(payload)
	require.NoError(t, err)
	require.Len(t, planned, 3)

	id, known := planned[0].Ref.ID()
	assert.True(t, known)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, 2.0, planned[0].Quantity)
	assert.Equal(t, "Rice", planned[0].DisplayName)

	assert.False(t, planned[1].Ref.Known(), "sentinel decodes to unknown")
	assert.Equal(t, "Saffron", planned[1].DisplayName)

	assert.Equal(t, 0.0, planned[2].Quantity, "zero quantity is valid input")
}

func TestDecodePlanRejectsMalformedShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `pantry`},
		{name: "not an array", payload: `{"item_id": 1}`},
		{name: "missing item_id", payload: `[{"quantity": 1, "display_name": "Rice"}]`},
		{name: "missing quantity", payload: `[{"item_id": 1, "display_name": "Rice"}]`},
		{name: "negative quantity", payload: `[{"item_id": 1, "quantity": -2}]`},
		{name: "string quantity", payload: `[{"item_id": 1, "quantity": "two"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePlan([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrMalformedPlan)
		})
	}
}

func TestDecodePlanEmptyArray(t *testing.T) {
	planned, err := DecodePlan([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, planned)
}

func TestIngredientsFlattensDishes(t *testing.T) {
	dishes := []Dish{
		{Name: "Pulao", Ingredients: []types.PlannedIngredient{
			{Ref: types.KnownItem(1), Quantity: 2, DisplayName: "Rice"},
		}},
		{Name: "Kheer", Ingredients: []types.PlannedIngredient{
			{Ref: types.KnownItem(1), Quantity: 0.5, DisplayName: "Rice"},
			{Ref: types.KnownItem(2), Quantity: 1, DisplayName: "Milk"},
		}},
	}

	all := Ingredients(dishes)
	require.Len(t, all, 3)
	assert.Equal(t, "Rice", all[0].DisplayName)
	assert.Equal(t, "Milk", all[2].DisplayName)
}
