package handler

import "github.com/mmynk/groupusers/internal/models"

// userView is the serialized form of a user. The credential is whatever the
// service left in PasswordHash, which is the mask for every group listing.
type userView struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"displayName"`
	Password    string  `json:"password"`
	Followers   []int64 `json:"followers"`
	Friends     []int64 `json:"friends"`
	CreatedAt   int64   `json:"createdAt"`
}

type groupView struct {
	ID          int64      `json:"id"`
	CreatorID   int64      `json:"creatorID"`
	Name        string     `json:"groupName"`
	Description string     `json:"groupDescription"`
	GroupURL    string     `json:"groupUrl"`
	Members     []userView `json:"groupMembers"`
	CreatedAt   int64      `json:"createdAt"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Password:    u.PasswordHash,
		Followers:   nonNil(u.Followers),
		Friends:     nonNil(u.Friends),
		CreatedAt:   u.CreatedAt,
	}
}

func toUserViews(users []*models.User) []userView {
	views := make([]userView, len(users))
	for i, u := range users {
		views[i] = toUserView(u)
	}
	return views
}

func toGroupViews(groups []*models.Group) []groupView {
	views := make([]groupView, len(groups))
	for i, g := range groups {
		views[i] = groupView{
			ID:          g.ID,
			CreatorID:   g.CreatorID,
			Name:        g.Name,
			Description: g.Description,
			GroupURL:    g.GroupURL,
			Members:     toUserViews(g.Members),
			CreatedAt:   g.CreatedAt,
		}
	}
	return views
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
