package handler

import (
	"errors"
	"net/http"

	"github.com/mmynk/groupusers/internal/auth"
	"github.com/mmynk/groupusers/internal/service"
)

// UserHandler serves user registration and relations.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a handler backed by the given user service.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type registerResponse struct {
	ID int64 `json:"id"`
}

type followRequest struct {
	FollowerID int64 `json:"followerID"`
}

type befriendRequest struct {
	FriendID int64 `json:"friendID"`
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "user not created, expecting Json data")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	switch {
	case errors.Is(err, service.ErrEmailExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrDisplayNameRequired),
		errors.Is(err, auth.ErrWeakPassword):
		badRequest(w, err.Error())
		return
	case err != nil:
		internalError(w, "Register", err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{ID: user.ID})
}

// AddFollower handles POST /users/{userID}/followers.
func (h *UserHandler) AddFollower(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		badRequest(w, msgUserIDInvalid)
		return
	}
	var req followRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "expecting Json data")
		return
	}

	h.writeRelationResult(w, "AddFollower", h.users.Follow(r.Context(), userID, req.FollowerID))
}

// AddFriend handles POST /users/{userID}/friends.
func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		badRequest(w, msgUserIDInvalid)
		return
	}
	var req befriendRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "expecting Json data")
		return
	}

	h.writeRelationResult(w, "AddFriend", h.users.Befriend(r.Context(), userID, req.FriendID))
}

func (h *UserHandler) writeRelationResult(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownUser), errors.Is(err, service.ErrSelfRelation):
		badRequest(w, err.Error())
	case err != nil:
		internalError(w, op, err)
	default:
		writeJSON(w, http.StatusCreated, "success")
	}
}
