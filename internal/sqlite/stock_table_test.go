// Tests for stock entry persistence, including delete-if-zero semantics.
package sqlite

import (
	"testing"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestStock_SetAndGet(t *testing.T) {
	s := newTestStore(t)
	id := registerItem(t, s, "Rice", "kg")

	if err := s.SetStock(id, 5); err != nil {
		t.Fatalf("SetStock failed: %v", err)
	}

	qty, err := s.GetStock(id)
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if qty != 5 {
		t.Errorf("expected 5, got %v", qty)
	}

	// Upsert overwrites.
	if err := s.SetStock(id, 1.5); err != nil {
		t.Fatalf("SetStock failed: %v", err)
	}
	qty, _ = s.GetStock(id)
	if qty != 1.5 {
		t.Errorf("expected 1.5, got %v", qty)
	}
}

func TestStock_AbsentIsNotFound(t *testing.T) {
	s := newTestStore(t)
	id := registerItem(t, s, "Milk", "L")

	if _, err := s.GetStock(id); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound for item without stock, got %v", err)
	}
}

func TestStock_ZeroDeletesEntry(t *testing.T) {
	s := newTestStore(t)
	id := registerItem(t, s, "Milk", "L")

	if err := s.SetStock(id, 0.2); err != nil {
		t.Fatalf("SetStock failed: %v", err)
	}

	// Writing zero removes the row; a subsequent read is "not found",
	// not zero.
	if err := s.SetStock(id, 0); err != nil {
		t.Fatalf("SetStock(0) failed: %v", err)
	}
	if _, err := s.GetStock(id); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound after zeroing, got %v", err)
	}

	// Negative writes clamp to removal as well.
	if err := s.SetStock(id, 2); err != nil {
		t.Fatalf("SetStock failed: %v", err)
	}
	if err := s.SetStock(id, -1); err != nil {
		t.Fatalf("SetStock(-1) failed: %v", err)
	}
	if _, err := s.GetStock(id); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound after negative write, got %v", err)
	}

	// Deleting an absent row is a no-op.
	if err := s.SetStock(id, 0); err != nil {
		t.Errorf("SetStock(0) on absent row should not error, got %v", err)
	}
}

func TestStock_ListOrderedByItemName(t *testing.T) {
	s := newTestStore(t)
	rice := registerItem(t, s, "Rice", "kg")
	atta := registerItem(t, s, "Atta", "kg")
	milk := registerItem(t, s, "Milk", "L")

	for id, qty := range map[int64]float64{rice: 5, atta: 10, milk: 0.2} {
		if err := s.SetStock(id, qty); err != nil {
			t.Fatalf("SetStock failed: %v", err)
		}
	}

	entries, err := s.ListStock()
	if err != nil {
		t.Fatalf("ListStock failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	want := []int64{atta, milk, rice}
	for i, e := range entries {
		if e.ItemID != want[i] {
			t.Errorf("position %d: expected item %d, got %d", i, want[i], e.ItemID)
		}
	}
}
