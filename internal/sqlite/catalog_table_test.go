// Tests for catalog item persistence.
package sqlite

import (
	"testing"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestCatalog_PutAndGet(t *testing.T) {
	s := newTestStore(t)

	id, err := s.PutItem(&types.CatalogItem{
		Name:          "Basmati Rice",
		Category:      "Groceries",
		Unit:          "kg",
		ShelfLifeDays: 365,
	})
	if err != nil {
		t.Fatalf("PutItem failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive item id, got %d", id)
	}

	item, err := s.GetItem(id)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Name != "Basmati Rice" || item.Unit != "kg" || item.ShelfLifeDays != 365 {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestCatalog_DefaultUnit(t *testing.T) {
	s := newTestStore(t)

	id, err := s.PutItem(&types.CatalogItem{Name: "Eggs"})
	if err != nil {
		t.Fatalf("PutItem failed: %v", err)
	}

	item, err := s.GetItem(id)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.Unit != types.DefaultUnit {
		t.Errorf("expected default unit %q, got %q", types.DefaultUnit, item.Unit)
	}
}

func TestCatalog_GetItemByNameCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	id := registerItem(t, s, "Milk", "L")

	for _, name := range []string{"Milk", "milk", "MILK"} {
		item, err := s.GetItemByName(name)
		if err != nil {
			t.Fatalf("GetItemByName(%q) failed: %v", name, err)
		}
		if item.ItemID != id {
			t.Errorf("GetItemByName(%q) returned item %d, want %d", name, item.ItemID, id)
		}
	}

	if _, err := s.GetItemByName("Butter"); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound for missing name, got %v", err)
	}
}

func TestCatalog_DuplicateNameRejected(t *testing.T) {
	s := newTestStore(t)
	registerItem(t, s, "Sugar", "kg")

	_, err := s.PutItem(&types.CatalogItem{Name: "sugar"})
	if err != types.ErrDuplicateName {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestCatalog_Validation(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.PutItem(&types.CatalogItem{}); err != types.ErrInvalidName {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
	if _, err := s.PutItem(&types.CatalogItem{Name: "Ghee", ShelfLifeDays: -1}); err != types.ErrInvalidShelfLife {
		t.Errorf("expected ErrInvalidShelfLife, got %v", err)
	}
	if _, err := s.GetItem(0); err != types.ErrInvalidID {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	if _, err := s.GetItem(999); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalog_RefreshPurchaseInfo(t *testing.T) {
	s := newTestStore(t)
	id := registerItem(t, s, "Paneer", "kg")

	if err := s.RefreshPurchaseInfo(id, "Dairy Farm Co", 320); err != nil {
		t.Fatalf("RefreshPurchaseInfo failed: %v", err)
	}

	item, err := s.GetItem(id)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if item.LastVendor != "Dairy Farm Co" || item.LastUnitPrice != 320 {
		t.Errorf("purchase info not refreshed: %+v", item)
	}

	// Empty vendor and zero price keep the stored values.
	if err := s.RefreshPurchaseInfo(id, "", 0); err != nil {
		t.Fatalf("RefreshPurchaseInfo failed: %v", err)
	}
	item, _ = s.GetItem(id)
	if item.LastVendor != "Dairy Farm Co" || item.LastUnitPrice != 320 {
		t.Errorf("purchase info should be unchanged: %+v", item)
	}

	if err := s.RefreshPurchaseInfo(999, "X", 1); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalog_ListItemsOrderedByName(t *testing.T) {
	s := newTestStore(t)
	registerItem(t, s, "Turmeric", "g")
	registerItem(t, s, "atta", "kg")
	registerItem(t, s, "Milk", "L")

	items, err := s.ListItems()
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	want := []string{"atta", "Milk", "Turmeric"}
	for i, item := range items {
		if item.Name != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], item.Name)
		}
	}
}
