package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// memDirectory is an in-memory user directory for tests.
type memDirectory struct {
	users map[string]types.User
}

func (d *memDirectory) GetUser(username string) (*types.User, error) {
	user, ok := d.users[username]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &user, nil
}

func (d *memDirectory) PutUser(user *types.User) (int64, error) {
	d.users[user.Username] = *user
	return int64(len(d.users)), nil
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := &memDirectory{users: map[string]types.User{
		"chef": {
			Username:     "chef",
			PasswordHash: HashPassword("mise-en-place"),
			Role:         types.RoleAdmin,
		},
	}}
	return NewManager(dir, time.Hour)
}

func TestLoginAndValidate(t *testing.T) {
	mgr := newTestManager(t)

	session, err := mgr.Login("chef", "mise-en-place")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "chef", session.Username)
	assert.Equal(t, types.RoleAdmin, session.Role)
	assert.True(t, session.ExpiresAt.After(session.CreatedAt))

	got, err := mgr.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	mgr := newTestManager(t)

	_, err := mgr.Login("chef", "wrong")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials)

	_, err = mgr.Login("nobody", "mise-en-place")
	assert.ErrorIs(t, err, types.ErrInvalidCredentials, "unknown user fails like a wrong password")
}

func TestValidateUnknownToken(t *testing.T) {
	mgr := newTestManager(t)

	_, err := mgr.Validate("not-a-token")
	assert.ErrorIs(t, err, types.ErrSessionExpired)
}

func TestValidateExpiredTokenIsDropped(t *testing.T) {
	mgr := newTestManager(t)

	session, err := mgr.Login("chef", "mise-en-place")
	require.NoError(t, err)

	mgr.now = func() time.Time { return session.ExpiresAt.Add(time.Minute) }
	_, err = mgr.Validate(session.Token)
	assert.ErrorIs(t, err, types.ErrSessionExpired)

	// Even after the clock is restored the token stays gone.
	mgr.now = time.Now
	_, err = mgr.Validate(session.Token)
	assert.ErrorIs(t, err, types.ErrSessionExpired)
}

func TestLogout(t *testing.T) {
	mgr := newTestManager(t)

	session, err := mgr.Login("chef", "mise-en-place")
	require.NoError(t, err)

	mgr.Logout(session.Token)
	_, err = mgr.Validate(session.Token)
	assert.ErrorIs(t, err, types.ErrSessionExpired)

	mgr.Logout("never-issued") // no-op
}

func TestHashPasswordIsStableHex(t *testing.T) {
	digest := HashPassword("mise-en-place")
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, HashPassword("mise-en-place"))
	assert.NotEqual(t, digest, HashPassword("Mise-en-place"))
}
