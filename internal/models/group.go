package models

// Group is a named set of users created by one of them.
type Group struct {
	// ID is the unique numeric identifier assigned by the store.
	// Zero means the group has not been persisted yet.
	ID int64

	// CreatorID is the ID of the user who created the group.
	CreatorID int64

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// Description is free text supplied by the creator.
	Description string

	// GroupURL is the public lookup key for the group. It is generated once
	// at creation, is unique across all groups and never changes.
	GroupURL string

	// Members are the users in this group, in the order they joined.
	Members []*User

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether the user with the given ID is in the group.
func (g *Group) HasMember(userID int64) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the member IDs in join order.
func (g *Group) MemberIDs() []int64 {
	ids := make([]int64, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}
