// Package handler exposes the group and user services over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/mmynk/groupusers/internal/service"
)

// Client-facing messages for group endpoints.
const (
	msgExpectingJSON   = "group not created, expecting Json data"
	msgAddMemberFailed = "Failed to add member!"
	msgUserIDInvalid   = "user id is null or empty!"
	msgGroupNotExist   = "The group does not exist!"
	msgGroupIDInvalid  = "Id not created, please enter valid user"
)

// formatJSON is the only supported output format.
const formatJSON = "json"

// GroupHandler serves the group endpoints.
type GroupHandler struct {
	groups *service.GroupService
}

// NewGroupHandler creates a handler backed by the given group service.
func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type createGroupRequest struct {
	UserID           int64  `json:"userID"`
	GroupName        string `json:"groupName"`
	GroupDescription string `json:"groupDescription"`
}

type addMemberRequest struct {
	GroupURL string `json:"groupUrl"`
	UserID   int64  `json:"userID"`
}

// CreateGroup handles POST /groups. The response body is the group URL as a
// JSON string.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, msgExpectingJSON)
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), req.UserID, req.GroupName, req.GroupDescription)
	if errors.Is(err, service.ErrCreatorNotFound) {
		badRequest(w, err.Error())
		return
	}
	if err != nil {
		internalError(w, "CreateGroup", err)
		return
	}

	writeJSON(w, http.StatusCreated, group.GroupURL)
}

// AddMember handles POST /groups/members.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, msgExpectingJSON)
		return
	}

	added, err := h.groups.AddMemberToGroup(r.Context(), req.GroupURL, req.UserID)
	if errors.Is(err, service.ErrMemberNotFound) {
		badRequest(w, msgAddMemberFailed)
		return
	}
	if err != nil {
		internalError(w, "AddMember", err)
		return
	}
	if !added {
		badRequest(w, msgAddMemberFailed)
		return
	}

	writeJSON(w, http.StatusCreated, "success")
}

// GroupList handles GET /users/{userID}/groups/{format}.
func (h *GroupHandler) GroupList(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		badRequest(w, msgUserIDInvalid)
		return
	}
	format := r.PathValue("format")
	if format != formatJSON {
		badRequest(w, "unsupported format: "+format)
		return
	}

	groups, err := h.groups.GroupList(r.Context(), userID)
	if errors.Is(err, service.ErrGroupsNotFound) {
		badRequest(w, msgGroupNotExist)
		return
	}
	if err != nil {
		internalError(w, "GroupList", err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupViews(groups))
}

// GroupMembers handles GET /groups/{groupID}/members/{format}.
func (h *GroupHandler) GroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(r, "groupID")
	if !ok {
		badRequest(w, msgGroupIDInvalid)
		return
	}
	format := r.PathValue("format")
	if format != formatJSON {
		badRequest(w, "unsupported format: "+format)
		return
	}

	members, err := h.groups.GroupMembers(r.Context(), groupID)
	if errors.Is(err, service.ErrGroupNotFound) {
		badRequest(w, msgGroupIDInvalid)
		return
	}
	if err != nil {
		internalError(w, "GroupMembers", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserViews(members))
}
