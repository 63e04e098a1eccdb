package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the unique numeric identifier assigned by the store.
	ID int64

	// Email is the user's email address (unique).
	Email string

	// DisplayName is the name shown to other users.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	// It must never leave the service in cleartext.
	PasswordHash string

	// Followers holds the IDs of users following this user.
	Followers []int64

	// Friends holds the IDs of this user's friends.
	Friends []int64

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser builds a user with timestamps set to now. The ID is assigned on insert.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.Followers = append([]int64(nil), u.Followers...)
	c.Friends = append([]int64(nil), u.Friends...)
	return &c
}
