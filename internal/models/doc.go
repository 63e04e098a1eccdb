// Package models defines the core domain models for groupusers.
//
// # Models
//
//   - User: a registered account. Users are read by the group operations but
//     created elsewhere (registration).
//   - Group: a named set of users with a creator and a public group URL.
//
// # Relationships
//
// Relations are stored as numeric user IDs rather than pointers:
//   - User.Followers and User.Friends hold IDs of other users
//   - Group.Members holds full User records, loaded by the store
//
// A user may belong to many groups. A group does not own its members; it only
// references them.
package models
