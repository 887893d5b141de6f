package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestAdjust_PurchaseAddsStockAndRefreshesCatalog(t *testing.T) {
	engine, store := newTestEngine(t)
	rice := stockItem(t, store, "Rice", "kg", 2)

	m, err := engine.Adjust(Adjustment{
		ItemID:    rice,
		Kind:      types.KindPurchase,
		Quantity:  5,
		UnitPrice: 82.5,
		Vendor:    "Wholesale Mart",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.MovementID)
	assert.Equal(t, types.SourceManual, m.Source)

	qty, err := store.GetStock(rice)
	require.NoError(t, err)
	assert.Equal(t, 7.0, qty)

	item, err := store.GetItem(rice)
	require.NoError(t, err)
	assert.Equal(t, "Wholesale Mart", item.LastVendor)
	assert.Equal(t, 82.5, item.LastUnitPrice)

	movements, err := store.ListMovements(types.MovementFilter{ItemID: rice})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, types.KindPurchase, movements[0].Kind)
	assert.Equal(t, "Wholesale Mart", movements[0].Vendor)
}

func TestAdjust_PurchaseCreatesMissingStockEntry(t *testing.T) {
	engine, store := newTestEngine(t)
	milk := stockItem(t, store, "Milk", "L", 0) // no stock row yet

	_, err := engine.Adjust(Adjustment{ItemID: milk, Kind: types.KindPurchase, Quantity: 2})
	require.NoError(t, err)

	qty, err := store.GetStock(milk)
	require.NoError(t, err)
	assert.Equal(t, 2.0, qty)
}

func TestAdjust_ConsumeDeductsInPlace(t *testing.T) {
	engine, store := newTestEngine(t)
	rice := stockItem(t, store, "Rice", "kg", 5)

	_, err := engine.Adjust(Adjustment{ItemID: rice, Kind: types.KindConsume, Quantity: 2})
	require.NoError(t, err)

	qty, err := store.GetStock(rice)
	require.NoError(t, err)
	assert.Equal(t, 3.0, qty)
}

func TestAdjust_WasteOfFullQuantityRemovesEntry(t *testing.T) {
	// Wasting exactly the held quantity removes the stock entry and logs
	// exactly one WASTE movement of that quantity.
	engine, store := newTestEngine(t)
	milk := stockItem(t, store, "Milk", "L", 0.7)

	_, err := engine.Adjust(Adjustment{ItemID: milk, Kind: types.KindWaste, Quantity: 0.7})
	require.NoError(t, err)

	_, err = store.GetStock(milk)
	assert.ErrorIs(t, err, types.ErrNotFound)

	movements, err := store.ListMovements(types.MovementFilter{ItemID: milk, Kind: types.KindWaste})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 0.7, movements[0].Quantity)
}

func TestAdjust_OverConsumeClampsAtRemoval(t *testing.T) {
	// Deducting past zero never produces negative stock; the entry is
	// removed and the movement still records the full requested quantity.
	engine, store := newTestEngine(t)
	dal := stockItem(t, store, "Dal", "kg", 1)

	m, err := engine.Adjust(Adjustment{ItemID: dal, Kind: types.KindConsume, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, m.Quantity)

	_, err = store.GetStock(dal)
	assert.ErrorIs(t, err, types.ErrNotFound)

	movements, err := store.ListMovements(types.MovementFilter{ItemID: dal})
	require.NoError(t, err)
	assert.Len(t, movements, 1, "exactly one movement per adjustment")
}

func TestAdjust_Validation(t *testing.T) {
	engine, store := newTestEngine(t)
	rice := stockItem(t, store, "Rice", "kg", 5)

	tests := []struct {
		name    string
		adj     Adjustment
		wantErr error
	}{
		{
			name:    "zero purchase quantity",
			adj:     Adjustment{ItemID: rice, Kind: types.KindPurchase, Quantity: 0},
			wantErr: types.ErrInvalidQuantity,
		},
		{
			name:    "negative waste quantity",
			adj:     Adjustment{ItemID: rice, Kind: types.KindWaste, Quantity: -1},
			wantErr: types.ErrInvalidQuantity,
		},
		{
			name:    "unknown kind",
			adj:     Adjustment{ItemID: rice, Kind: "TRANSFER", Quantity: 1},
			wantErr: types.ErrInvalidKind,
		},
		{
			name:    "unresolved item",
			adj:     Adjustment{ItemID: 999, Kind: types.KindConsume, Quantity: 1},
			wantErr: types.ErrItemNotFound,
		},
		{
			name:    "sentinel item id",
			adj:     Adjustment{ItemID: types.SentinelItemID, Kind: types.KindConsume, Quantity: 1},
			wantErr: types.ErrItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Adjust(tt.adj)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Failed validation must leave no trace.
	qty, err := store.GetStock(rice)
	require.NoError(t, err)
	assert.Equal(t, 5.0, qty)
	movements, err := store.ListMovements(types.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movements)
}
