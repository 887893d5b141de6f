package types

import "time"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an operator account. Passwords are stored as hex-encoded SHA-256
// digests; larder is a single-admin tool and does not attempt anything
// stronger.
type User struct {
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the fields a caller must supply before the user is
// persisted.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrInvalidName
	}
	if u.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	return nil
}
