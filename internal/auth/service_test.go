package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestService_Register(t *testing.T) {
	_, svc := setupAuthTestDB(t)

	user, err := svc.Register("alice", "correct-horse")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	_, err = svc.Register("alice", "another-password")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_RegisterValidation(t *testing.T) {
	_, svc := setupAuthTestDB(t)

	tests := []struct {
		username string
		password string
		wantErr  error
	}{
		{"", "correct-horse", ErrUsernameRequired},
		{"alice", "", ErrPasswordRequired},
		{"a", "correct-horse", ErrUsernameInvalid},
		{"bad name", "correct-horse", ErrUsernameInvalid},
		{"alice", "short", ErrPasswordTooShort},
	}

	for _, tt := range tests {
		_, err := svc.Register(tt.username, tt.password)
		assert.ErrorIs(t, err, tt.wantErr, "%q/%q", tt.username, tt.password)
	}
}

func TestService_Authenticate(t *testing.T) {
	_, svc := setupAuthTestDB(t)

	_, err := svc.Register("alice", "correct-horse")
	require.NoError(t, err)

	user, err := svc.Authenticate("alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotNil(t, user.LastLoginAt)

	_, err = svc.Authenticate("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Authenticate("ghost", "whatever")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_AccountLockout(t *testing.T) {
	db, svc := setupAuthTestDB(t)

	_, err := svc.Register("alice", "correct-horse")
	require.NoError(t, err)

	for i := 0; i < testAuthConfig().MaxLoginAttempts; i++ {
		_, err = svc.Authenticate("alice", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}

	_, err = svc.Authenticate("alice", "correct-horse")
	assert.ErrorIs(t, err, ErrAccountLocked)

	// Lock expires
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&entities.User{}).Where("username = ?", "alice").Update("locked_until", past).Error)

	user, err := svc.Authenticate("alice", "correct-horse")
	require.NoError(t, err)
	assert.Zero(t, user.FailedLoginCount)
}

func TestService_GetUserByID(t *testing.T) {
	_, svc := setupAuthTestDB(t)

	created, err := svc.Register("alice", "correct-horse")
	require.NoError(t, err)

	user, err := svc.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetUserByID(999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	all, err := svc.ListUsers()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
