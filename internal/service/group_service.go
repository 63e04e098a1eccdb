package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/mmynk/groupusers/internal/metrics"
	"github.com/mmynk/groupusers/internal/models"
	"github.com/mmynk/groupusers/internal/storage"
)

// CredentialMask replaces the credential of every user returned by the
// group listing operations.
const CredentialMask = "******"

// maxURLAttempts bounds group URL regeneration on collision.
const maxURLAttempts = 5

var (
	ErrCreatorNotFound = errors.New("group creator does not exist")
	ErrMemberNotFound  = errors.New("user to add does not exist")
	ErrGroupNotFound   = errors.New("group does not exist")

	// ErrGroupsNotFound is matched by both ErrUserNotFound and ErrNoGroups.
	ErrGroupsNotFound = errors.New("no groups found")
	ErrUserNotFound   = fmt.Errorf("user does not exist: %w", ErrGroupsNotFound)
	ErrNoGroups       = fmt.Errorf("user has no groups: %w", ErrGroupsNotFound)
)

// GroupService coordinates the user and group stores for the group use cases.
// It holds no state besides the stores and is safe for concurrent use.
type GroupService struct {
	groups storage.GroupStore
	users  storage.UserStore

	// newGroupURL is replaceable in tests.
	newGroupURL func(name string) string
}

// NewGroupService creates a new GroupService with the given storage backends.
func NewGroupService(groups storage.GroupStore, users storage.UserStore) *GroupService {
	return &GroupService{
		groups:      groups,
		users:       users,
		newGroupURL: generateGroupURL,
	}
}

// CreateGroup creates a group with the creator as its only member.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID int64, name, description string) (*models.Group, error) {
	slog.Info("CreateGroup request received", "creator_id", creatorID, "name", name)

	creator, err := s.users.GetUser(ctx, creatorID)
	if errors.Is(err, storage.ErrNotFound) {
		metrics.ObserveGroupOperation("create", metrics.ResultRejected)
		return nil, ErrCreatorNotFound
	}
	if err != nil {
		metrics.ObserveGroupOperation("create", metrics.ResultError)
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}

	var group *models.Group
	for attempt := 1; ; attempt++ {
		group = &models.Group{
			CreatorID:   creator.ID,
			Name:        name,
			Description: description,
			GroupURL:    s.newGroupURL(name),
			Members:     []*models.User{creator},
		}

		err = s.groups.SaveGroup(ctx, group)
		if err == nil {
			break
		}
		if !errors.Is(err, storage.ErrDuplicateGroupURL) || attempt >= maxURLAttempts {
			metrics.ObserveGroupOperation("create", metrics.ResultError)
			return nil, fmt.Errorf("failed to save group: %w", err)
		}
		slog.Warn("Group URL collision, regenerating", "group_url", group.GroupURL, "attempt", attempt)
	}

	metrics.ObserveGroupOperation("create", metrics.ResultOK)
	slog.Info("Group created", "group_id", group.ID, "group_url", group.GroupURL)
	return group, nil
}

// AddMemberToGroup adds the user to the group identified by groupURL.
// It returns false with a nil error when no group has that URL.
// Adding a user who is already a member succeeds without changing the group.
func (s *GroupService) AddMemberToGroup(ctx context.Context, groupURL string, userID int64) (bool, error) {
	slog.Info("AddMemberToGroup request received", "group_url", groupURL, "user_id", userID)

	group, err := s.groups.GetGroupByURL(ctx, groupURL)
	if errors.Is(err, storage.ErrNotFound) {
		metrics.ObserveGroupOperation("add_member", metrics.ResultRejected)
		return false, nil
	}
	if err != nil {
		metrics.ObserveGroupOperation("add_member", metrics.ResultError)
		return false, fmt.Errorf("failed to look up group: %w", err)
	}

	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		metrics.ObserveGroupOperation("add_member", metrics.ResultRejected)
		return false, ErrMemberNotFound
	}
	if err != nil {
		metrics.ObserveGroupOperation("add_member", metrics.ResultError)
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	if group.HasMember(user.ID) {
		metrics.ObserveGroupOperation("add_member", metrics.ResultOK)
		slog.Info("User already in group", "group_id", group.ID, "user_id", user.ID)
		return true, nil
	}

	group.Members = append(group.Members, user)
	if err := s.groups.SaveGroup(ctx, group); err != nil {
		metrics.ObserveGroupOperation("add_member", metrics.ResultError)
		return false, fmt.Errorf("failed to save group: %w", err)
	}

	metrics.ObserveGroupOperation("add_member", metrics.ResultOK)
	slog.Info("Member added", "group_id", group.ID, "user_id", user.ID, "members_count", len(group.Members))
	return true, nil
}

// GroupList returns the groups associated with the user. Members carry no
// follower or friend IDs and a masked credential.
//
// When nothing is found the error wraps ErrGroupsNotFound: ErrUserNotFound
// if the user does not exist, ErrNoGroups if it has no groups.
func (s *GroupService) GroupList(ctx context.Context, userID int64) ([]*models.Group, error) {
	slog.Info("GroupList request received", "user_id", userID)

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.ObserveGroupOperation("list_groups", metrics.ResultRejected)
			return nil, ErrUserNotFound
		}
		metrics.ObserveGroupOperation("list_groups", metrics.ResultError)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	groups, err := s.groups.ListGroupsByUser(ctx, userID)
	if err != nil {
		metrics.ObserveGroupOperation("list_groups", metrics.ResultError)
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	if len(groups) == 0 {
		metrics.ObserveGroupOperation("list_groups", metrics.ResultRejected)
		return nil, ErrNoGroups
	}

	scrubbed := make([]*models.Group, len(groups))
	for i, group := range groups {
		g := *group
		g.Members = make([]*models.User, len(group.Members))
		for j, member := range group.Members {
			g.Members[j] = scrubRelations(maskCredential(member))
		}
		scrubbed[i] = &g
	}

	metrics.ObserveGroupOperation("list_groups", metrics.ResultOK)
	slog.Info("GroupList successful", "user_id", userID, "count", len(scrubbed))
	return scrubbed, nil
}

// GroupMembers returns the members of the group with a masked credential.
// It returns ErrGroupNotFound if the group does not exist.
func (s *GroupService) GroupMembers(ctx context.Context, groupID int64) ([]*models.User, error) {
	slog.Info("GroupMembers request received", "group_id", groupID)

	group, err := s.groups.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		metrics.ObserveGroupOperation("list_members", metrics.ResultRejected)
		return nil, ErrGroupNotFound
	}
	if err != nil {
		metrics.ObserveGroupOperation("list_members", metrics.ResultError)
		return nil, fmt.Errorf("failed to look up group: %w", err)
	}

	members := make([]*models.User, len(group.Members))
	for i, member := range group.Members {
		members[i] = maskCredential(member)
	}

	metrics.ObserveGroupOperation("list_members", metrics.ResultOK)
	slog.Info("GroupMembers successful", "group_id", groupID, "count", len(members))
	return members, nil
}

// maskCredential returns a copy of u with the credential masked.
func maskCredential(u *models.User) *models.User {
	c := u.Clone()
	c.PasswordHash = CredentialMask
	return c
}

// scrubRelations clears follower and friend IDs in place and returns u.
func scrubRelations(u *models.User) *models.User {
	u.Followers = []int64{}
	u.Friends = []int64{}
	return u
}

// generateGroupURL builds "<slug of name>-<8 hex chars>".
func generateGroupURL(name string) string {
	suffix := uuid.New().String()[:8]
	base := slug.Make(name)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
