package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/groupusers/internal/auth"
	"github.com/mmynk/groupusers/internal/middleware"
	"github.com/mmynk/groupusers/internal/service"
	"github.com/mmynk/groupusers/internal/storage/sqlite"
)

// setupTestServer serves every route over a temp SQLite database.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	groupSvc := service.NewGroupService(store, store)
	userSvc := service.NewUserService(store, auth.NewPasswordHasher(bcrypt.MinCost), logger)

	mux := http.NewServeMux()
	Register(mux, NewGroupHandler(groupSvc), NewUserHandler(userSvc))

	server := httptest.NewServer(middleware.Logging(middleware.CORS(mux)))
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server
}

func doRequest(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, bytes.TrimSpace(data)
}

func registerUser(t *testing.T, server *httptest.Server, name string) int64 {
	t.Helper()

	body := fmt.Sprintf(`{"email":"%s@example.com","displayName":"%s","password":"password123"}`, name, name)
	status, data := doRequest(t, http.MethodPost, server.URL+"/users", body)
	require.Equal(t, http.StatusCreated, status, string(data))

	var resp registerResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp.ID
}

func errorMessage(t *testing.T, data []byte) string {
	t.Helper()

	var resp errorResponse
	require.NoError(t, json.Unmarshal(data, &resp), string(data))
	return resp.Error
}

func createGroup(t *testing.T, server *httptest.Server, userID int64, name string) string {
	t.Helper()

	body := fmt.Sprintf(`{"userID":%d,"groupName":"%s","groupDescription":"desc"}`, userID, name)
	status, data := doRequest(t, http.MethodPost, server.URL+"/groups", body)
	require.Equal(t, http.StatusCreated, status, string(data))

	var groupURL string
	require.NoError(t, json.Unmarshal(data, &groupURL))
	return groupURL
}

func TestCreateGroupEndpoint(t *testing.T) {
	server := setupTestServer(t)
	alice := registerUser(t, server, "alice")

	t.Run("returns group url", func(t *testing.T) {
		groupURL := createGroup(t, server, alice, "Team")
		assert.True(t, strings.HasPrefix(groupURL, "team-"), groupURL)
	})

	t.Run("missing body", func(t *testing.T) {
		status, data := doRequest(t, http.MethodPost, server.URL+"/groups", "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, msgExpectingJSON, errorMessage(t, data))
	})

	t.Run("malformed body", func(t *testing.T) {
		status, data := doRequest(t, http.MethodPost, server.URL+"/groups", "{not json")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, msgExpectingJSON, errorMessage(t, data))
	})

	t.Run("unknown creator", func(t *testing.T) {
		status, data := doRequest(t, http.MethodPost, server.URL+"/groups",
			`{"userID":999,"groupName":"Ghosts","groupDescription":""}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, service.ErrCreatorNotFound.Error(), errorMessage(t, data))
	})
}

func TestAddMemberEndpoint(t *testing.T) {
	server := setupTestServer(t)
	alice := registerUser(t, server, "alice")
	bob := registerUser(t, server, "bob")
	groupURL := createGroup(t, server, alice, "Team")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			body:       fmt.Sprintf(`{"groupUrl":%q,"userID":%d}`, groupURL, bob),
			wantStatus: http.StatusCreated,
			wantBody:   `"success"`,
		},
		{
			name:       "unknown group url",
			body:       fmt.Sprintf(`{"groupUrl":"nope","userID":%d}`, bob),
			wantStatus: http.StatusBadRequest,
			wantBody:   msgAddMemberFailed,
		},
		{
			name:       "unknown user",
			body:       fmt.Sprintf(`{"groupUrl":%q,"userID":999}`, groupURL),
			wantStatus: http.StatusBadRequest,
			wantBody:   msgAddMemberFailed,
		},
		{
			name:       "missing body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantBody:   msgExpectingJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := doRequest(t, http.MethodPost, server.URL+"/groups/members", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, tt.wantBody, string(data))
			} else {
				assert.Equal(t, tt.wantBody, errorMessage(t, data))
			}
		})
	}
}

func TestGroupListEndpoint(t *testing.T) {
	server := setupTestServer(t)
	alice := registerUser(t, server, "alice")
	bob := registerUser(t, server, "bob")
	loner := registerUser(t, server, "loner")

	status, data := doRequest(t, http.MethodPost, fmt.Sprintf("%s/users/%d/followers", server.URL, alice),
		fmt.Sprintf(`{"followerID":%d}`, bob))
	require.Equal(t, http.StatusCreated, status, string(data))
	status, data = doRequest(t, http.MethodPost, fmt.Sprintf("%s/users/%d/friends", server.URL, alice),
		fmt.Sprintf(`{"friendID":%d}`, bob))
	require.Equal(t, http.StatusCreated, status, string(data))

	groupURL := createGroup(t, server, alice, "Team")
	status, _ = doRequest(t, http.MethodPost, server.URL+"/groups/members",
		fmt.Sprintf(`{"groupUrl":%q,"userID":%d}`, groupURL, bob))
	require.Equal(t, http.StatusCreated, status)

	t.Run("scrubbed list", func(t *testing.T) {
		status, data := doRequest(t, http.MethodGet, fmt.Sprintf("%s/users/%d/groups/json", server.URL, alice), "")
		require.Equal(t, http.StatusOK, status, string(data))

		var groups []groupView
		require.NoError(t, json.Unmarshal(data, &groups))
		require.Len(t, groups, 1)
		assert.Equal(t, groupURL, groups[0].GroupURL)
		require.Len(t, groups[0].Members, 2)
		for _, m := range groups[0].Members {
			assert.Empty(t, m.Followers)
			assert.Empty(t, m.Friends)
			assert.Equal(t, service.CredentialMask, m.Password)
		}
		assert.NotContains(t, string(data), "$2a$")
	})

	t.Run("invalid user id", func(t *testing.T) {
		status, data := doRequest(t, http.MethodGet, server.URL+"/users/abc/groups/json", "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, msgUserIDInvalid, errorMessage(t, data))
	})

	t.Run("no groups", func(t *testing.T) {
		for _, id := range []int64{loner, 999} {
			status, data := doRequest(t, http.MethodGet, fmt.Sprintf("%s/users/%d/groups/json", server.URL, id), "")
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, msgGroupNotExist, errorMessage(t, data))
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		status, data := doRequest(t, http.MethodGet, fmt.Sprintf("%s/users/%d/groups/xml", server.URL, alice), "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "unsupported format: xml", errorMessage(t, data))
	})
}

func TestGroupMembersEndpoint(t *testing.T) {
	server := setupTestServer(t)
	u1 := registerUser(t, server, "one")
	u2 := registerUser(t, server, "two")

	groupURL := createGroup(t, server, u1, "Team")
	status, _ := doRequest(t, http.MethodPost, server.URL+"/groups/members",
		fmt.Sprintf(`{"groupUrl":%q,"userID":%d}`, groupURL, u2))
	require.Equal(t, http.StatusCreated, status)

	status, data := doRequest(t, http.MethodGet, fmt.Sprintf("%s/users/%d/groups/json", server.URL, u1), "")
	require.Equal(t, http.StatusOK, status)
	var groups []groupView
	require.NoError(t, json.Unmarshal(data, &groups))
	require.Len(t, groups, 1)
	groupID := groups[0].ID

	t.Run("masked members", func(t *testing.T) {
		status, data := doRequest(t, http.MethodGet, fmt.Sprintf("%s/groups/%d/members/json", server.URL, groupID), "")
		require.Equal(t, http.StatusOK, status, string(data))

		var members []userView
		require.NoError(t, json.Unmarshal(data, &members))
		ids := make([]int64, len(members))
		for i, m := range members {
			ids[i] = m.ID
			assert.Equal(t, service.CredentialMask, m.Password)
		}
		assert.ElementsMatch(t, []int64{u1, u2}, ids)
	})

	t.Run("unknown group", func(t *testing.T) {
		status, data := doRequest(t, http.MethodGet, server.URL+"/groups/999/members/json", "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, msgGroupIDInvalid, errorMessage(t, data))
	})

	t.Run("invalid group id", func(t *testing.T) {
		status, data := doRequest(t, http.MethodGet, server.URL+"/groups/zero/members/json", "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, msgGroupIDInvalid, errorMessage(t, data))
	})
}

func TestRegisterEndpoint(t *testing.T) {
	server := setupTestServer(t)
	registerUser(t, server, "alice")

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"duplicate email", `{"email":"alice@example.com","displayName":"A","password":"password123"}`, http.StatusConflict},
		{"weak password", `{"email":"b@example.com","displayName":"B","password":"123"}`, http.StatusBadRequest},
		{"missing email", `{"displayName":"B","password":"password123"}`, http.StatusBadRequest},
		{"missing body", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doRequest(t, http.MethodPost, server.URL+"/users", tt.body)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestRelationEndpoints(t *testing.T) {
	server := setupTestServer(t)
	alice := registerUser(t, server, "alice")

	status, _ := doRequest(t, http.MethodPost, fmt.Sprintf("%s/users/%d/friends", server.URL, alice), `{"friendID":999}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, http.MethodPost, fmt.Sprintf("%s/users/%d/followers", server.URL, alice),
		fmt.Sprintf(`{"followerID":%d}`, alice))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthAndMetrics(t *testing.T) {
	server := setupTestServer(t)

	status, data := doRequest(t, http.MethodGet, server.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", string(data))

	status, data = doRequest(t, http.MethodGet, server.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), "groupusers_http_requests_total")
}
