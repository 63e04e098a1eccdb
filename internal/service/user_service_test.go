package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/groupusers/internal/auth"
)

func setupUserService(t *testing.T) (*UserService, *GroupService) {
	t.Helper()

	groups, store := setupGroupService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserService(store, auth.NewPasswordHasher(bcrypt.MinCost), logger), groups
}

func TestRegister(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, " alice@example.com ", "Alice", "password123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

	tests := []struct {
		name        string
		email       string
		displayName string
		password    string
		wantErr     error
	}{
		{"missing email", "", "Bob", "password123", ErrEmailRequired},
		{"missing display name", "bob@example.com", "  ", "password123", ErrDisplayNameRequired},
		{"weak password", "bob@example.com", "Bob", "short", auth.ErrWeakPassword},
		{"duplicate email", "alice@example.com", "Alice Again", "password123", ErrEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.displayName, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFollowAndBefriend(t *testing.T) {
	svc, groups := setupUserService(t)
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	bob, err := svc.Register(ctx, "bob@example.com", "Bob", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Befriend(ctx, alice.ID, bob.ID))

	assert.ErrorIs(t, svc.Follow(ctx, alice.ID, alice.ID), ErrSelfRelation)
	assert.ErrorIs(t, svc.Befriend(ctx, alice.ID, 999), ErrUnknownUser)

	group, err := groups.CreateGroup(ctx, alice.ID, "Pair", "")
	require.NoError(t, err)
	members, err := groups.GroupMembers(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, []int64{bob.ID}, members[0].Followers)
	assert.Equal(t, []int64{bob.ID}, members[0].Friends)
}
