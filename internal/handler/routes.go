package handler

import (
	"net/http"

	"github.com/mmynk/groupusers/internal/metrics"
)

// Register mounts every endpoint on mux.
func Register(mux *http.ServeMux, groups *GroupHandler, users *UserHandler) {
	mux.HandleFunc("POST /groups", groups.CreateGroup)
	mux.HandleFunc("POST /groups/members", groups.AddMember)
	mux.HandleFunc("GET /users/{userID}/groups/{format}", groups.GroupList)
	mux.HandleFunc("GET /groups/{groupID}/members/{format}", groups.GroupMembers)

	mux.HandleFunc("POST /users", users.Register)
	mux.HandleFunc("POST /users/{userID}/followers", users.AddFollower)
	mux.HandleFunc("POST /users/{userID}/friends", users.AddFriend)

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}
