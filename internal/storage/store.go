// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/groupusers/internal/models"
)

var (
	// ErrNotFound is returned (possibly wrapped) when a lookup matches no record.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateGroupURL is returned by SaveGroup when another group already
	// uses the group URL.
	ErrDuplicateGroupURL = errors.New("group url already in use")

	// ErrDuplicateEmail is returned by CreateUser when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore defines the user persistence operations.
type UserStore interface {
	// CreateUser inserts a new user. user.ID is populated by the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID, including follower and friend IDs.
	// Returns ErrNotFound if there is no such user.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// GetUserByEmail retrieves a user by email.
	// Returns ErrNotFound if there is no such user.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// AddFollower records that followerID follows userID. Idempotent.
	AddFollower(ctx context.Context, userID, followerID int64) error

	// AddFriend records a symmetric friendship between the two users. Idempotent.
	AddFriend(ctx context.Context, userID, friendID int64) error
}

// GroupStore defines the group persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type GroupStore interface {
	// GetGroup retrieves a group and its members by ID.
	// Returns ErrNotFound if there is no such group.
	GetGroup(ctx context.Context, id int64) (*models.Group, error)

	// GetGroupByURL retrieves a group and its members by group URL.
	// Returns ErrNotFound if there is no such group.
	GetGroupByURL(ctx context.Context, groupURL string) (*models.Group, error)

	// ListGroupsByUser returns every group the user created or is a member of,
	// ordered by creation. The result is empty (not an error) if there are none.
	ListGroupsByUser(ctx context.Context, userID int64) ([]*models.Group, error)

	// SaveGroup inserts the group when group.ID is zero and updates it otherwise.
	// The member list is stored as given. Insert populates ID and CreatedAt.
	SaveGroup(ctx context.Context, group *models.Group) error
}

// Store is the full storage backend used by the server.
type Store interface {
	UserStore
	GroupStore

	// Close releases any resources held by the store.
	Close() error
}
