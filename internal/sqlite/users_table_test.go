// Tests for user account persistence.
package sqlite

import (
	"errors"
	"testing"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestUsers_PutAndGet(t *testing.T) {
	s := newTestStore(t)

	id, err := s.PutUser(&types.User{
		Username:     "chef",
		PasswordHash: "0123456789abcdef",
		FullName:     "Head Chef",
		Role:         types.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("PutUser failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a generated user id")
	}

	u, err := s.GetUser("chef")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.UserID != id {
		t.Errorf("expected id %d, got %d", id, u.UserID)
	}
	if u.Role != types.RoleAdmin {
		t.Errorf("expected admin role, got %q", u.Role)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestUsers_DefaultRole(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.PutUser(&types.User{Username: "line-cook", PasswordHash: "abc"}); err != nil {
		t.Fatalf("PutUser failed: %v", err)
	}

	u, err := s.GetUser("line-cook")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.Role != types.RoleUser {
		t.Errorf("expected default role %q, got %q", types.RoleUser, u.Role)
	}
}

func TestUsers_UnknownIsNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetUser("ghost"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUsers_UpdateExisting(t *testing.T) {
	s := newTestStore(t)

	u := &types.User{Username: "chef", PasswordHash: "old"}
	id, err := s.PutUser(u)
	if err != nil {
		t.Fatalf("PutUser failed: %v", err)
	}

	u.PasswordHash = "new"
	u.Role = types.RoleAdmin
	if _, err := s.PutUser(u); err != nil {
		t.Fatalf("PutUser update failed: %v", err)
	}

	got, err := s.GetUser("chef")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.UserID != id {
		t.Errorf("expected same id %d, got %d", id, got.UserID)
	}
	if got.PasswordHash != "new" {
		t.Errorf("expected updated hash, got %q", got.PasswordHash)
	}
}
