// User account row helpers for session management.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// GetUser retrieves a user by username.
func (v ledgerView) GetUser(username string) (*types.User, error) {
	if username == "" {
		return nil, types.ErrInvalidName
	}

	var u types.User
	var createdAt string
	err := v.q.QueryRow(
		"SELECT user_id, username, password_hash, full_name, role, created_at FROM users WHERE username = ?",
		username,
	).Scan(&u.UserID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %q: %w", username, err)
	}

	u.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &u, nil
}

// PutUser creates the user when UserID is zero, otherwise updates the
// existing row. Returns the user's ID.
func (v ledgerView) PutUser(u *types.User) (int64, error) {
	if err := u.Validate(); err != nil {
		return 0, err
	}
	if u.Role == "" {
		u.Role = types.RoleUser
	}

	now := v.now().UTC()

	if u.UserID == 0 {
		u.CreatedAt = now
		res, err := v.q.Exec(
			"INSERT INTO users (username, password_hash, full_name, role, created_at) VALUES (?, ?, ?, ?, ?)",
			u.Username, u.PasswordHash, u.FullName, u.Role, now.Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading user id: %w", err)
		}
		u.UserID = id
		return id, nil
	}

	res, err := v.q.Exec(
		"UPDATE users SET username = ?, password_hash = ?, full_name = ?, role = ? WHERE user_id = ?",
		u.Username, u.PasswordHash, u.FullName, u.Role, u.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("updating user %d: %w", u.UserID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("updating user %d: %w", u.UserID, err)
	}
	if n == 0 {
		return 0, types.ErrNotFound
	}
	return u.UserID, nil
}
