package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postsdomain "social-app-go/internal/domain/posts"
)

type groupPayload struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	MemberCount *int64 `json:"member_count"`
}

type membershipPayload struct {
	Group  groupPayload `json:"group"`
	Notice struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"notice"`
}

func createGroup(t *testing.T, env *testEnv, token, name string) groupPayload {
	t.Helper()
	resp := env.apiRequest(t, http.MethodPost, "/api/groups", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var group groupPayload
	decode(t, resp, &group)
	return group
}

func memberCount(t *testing.T, env *testEnv, slug string) int64 {
	t.Helper()
	resp := env.apiRequest(t, http.MethodGet, "/api/groups/"+slug, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var group groupPayload
	decode(t, resp, &group)
	require.NotNil(t, group.MemberCount)
	return *group.MemberCount
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.apiRequest(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "alice")

	resp := env.apiRequest(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Username string `json:"username"`
	}
	decode(t, resp, &me)
	assert.Equal(t, "alice", me.Username)

	resp = env.apiRequest(t, http.MethodPost, "/api/accounts/signup", "", map[string]string{
		"username":         "ALICE",
		"password":         "correct horse",
		"password_confirm": "correct horse",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "username_taken", errorCode(t, resp))

	resp = env.apiRequest(t, http.MethodPost, "/api/accounts/login", "", map[string]string{
		"username": "alice",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_credentials", errorCode(t, resp))

	resp = env.apiRequest(t, http.MethodPost, "/api/accounts/login", "", map[string]string{
		"username": "alice",
		"password": "correct horse",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.apiRequest(t, http.MethodPost, "/api/accounts/signup", "", map[string]string{
		"username":         "bob",
		"password":         "short",
		"password_confirm": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request", errorCode(t, resp))
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	resp := env.apiRequest(t, http.MethodPost, "/api/groups/books/join", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_token", errorCode(t, resp))

	resp = env.apiRequest(t, http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJoinAndLeaveGroup(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	books := createGroup(t, env, alice, "Books")
	require.Equal(t, "books", books.Slug)

	var result membershipPayload

	resp := env.apiRequest(t, http.MethodPost, "/api/groups/books/join", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &result)
	assert.Equal(t, "success", result.Notice.Level)
	assert.Equal(t, "You are now a member of this group!", result.Notice.Message)
	assert.Equal(t, int64(1), memberCount(t, env, "books"))

	resp = env.apiRequest(t, http.MethodGet, "/api/groups/books/join", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &result)
	assert.Equal(t, "warning", result.Notice.Level)
	assert.Equal(t, "You are already a member of this group.", result.Notice.Message)
	assert.Equal(t, books.ID, result.Group.ID)
	assert.Equal(t, int64(1), memberCount(t, env, "books"))

	resp = env.apiRequest(t, http.MethodPost, "/api/groups/books/leave", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &result)
	assert.Equal(t, "You have left the group.", result.Notice.Message)
	assert.Equal(t, int64(0), memberCount(t, env, "books"))

	resp = env.apiRequest(t, http.MethodPost, "/api/groups/books/leave", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &result)
	assert.Equal(t, "warning", result.Notice.Level)
	assert.Equal(t, "You are not in this group.", result.Notice.Message)

	resp = env.apiRequest(t, http.MethodPost, "/api/groups/missing/join", alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "group_not_found", errorCode(t, resp))
}

func TestCreateGroupConflict(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	createGroup(t, env, alice, "Books")

	resp := env.apiRequest(t, http.MethodPost, "/api/groups", alice, map[string]string{"name": "Books"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.apiRequest(t, http.MethodPost, "/api/groups", alice, map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostOwnershipGuard(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	books := createGroup(t, env, alice, "Books")

	resp := env.apiRequest(t, http.MethodPost, "/api/posts/create", alice, map[string]interface{}{
		"message":  "hello",
		"group_id": books.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post struct {
		ID string `json:"id"`
	}
	decode(t, resp, &post)

	resp = env.apiRequest(t, http.MethodPost, "/api/posts/"+post.ID+"/delete", bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "post_not_found", errorCode(t, resp))

	resp = env.apiRequest(t, http.MethodGet, "/api/posts/by/alice/"+post.ID, alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		Message string `json:"message"`
		Group   *struct {
			Slug string `json:"slug"`
		} `json:"group"`
	}
	decode(t, resp, &detail)
	assert.Equal(t, "hello", detail.Message)
	require.NotNil(t, detail.Group)
	assert.Equal(t, "books", detail.Group.Slug)

	resp = env.apiRequest(t, http.MethodGet, "/api/posts/by/bob/"+post.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.apiRequest(t, http.MethodDelete, "/api/posts/"+post.ID, alice, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.apiRequest(t, http.MethodGet, "/api/posts/by/alice/"+post.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePostIgnoresAuthorFields(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	env.signup(t, "bob")
	bobID := env.userID(t, "bob")

	resp := env.apiRequest(t, http.MethodPost, "/api/posts/create", alice, map[string]interface{}{
		"message": "hello",
		"user_id": bobID,
		"user":    map[string]string{"id": bobID, "username": "bob"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post struct {
		ID     string `json:"id"`
		UserID string `json:"user_id"`
	}
	decode(t, resp, &post)

	aliceID := env.userID(t, "alice")
	assert.Equal(t, aliceID, post.UserID)

	var stored postsdomain.Post
	require.NoError(t, env.db.Where("id = ?", post.ID).First(&stored).Error)
	assert.Equal(t, aliceID, stored.UserID)
}

func TestCreatePostRejectsEmptyMessage(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")

	resp := env.apiRequest(t, http.MethodPost, "/api/posts/create", alice, map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, env.db.Model(&postsdomain.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListPostsPaginates(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")

	for _, message := range []string{"one", "two", "three"} {
		resp := env.apiRequest(t, http.MethodPost, "/api/posts/create", alice, map[string]string{"message": message})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := env.apiRequest(t, http.MethodGet, "/api/posts/by/alice?limit=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Items    []struct{} `json:"items"`
		Total    int64      `json:"total"`
		Username string     `json:"username"`
	}
	decode(t, resp, &page)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, "alice", page.Username)

	resp = env.apiRequest(t, http.MethodGet, "/api/posts?limit=2&page=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &page)
	assert.Len(t, page.Items, 1)

	resp = env.apiRequest(t, http.MethodGet, "/api/posts/by/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProfileUpdateAndPicture(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")

	resp := env.apiRequest(t, http.MethodPut, "/api/profiles/me", alice, map[string]string{
		"location": "a location name that is far too long",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.apiRequest(t, http.MethodPut, "/api/profiles/me", alice, map[string]string{
		"bio":        "reader",
		"location":   "Lisbon",
		"birth_date": "1990-04-01",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.upload(t, "/api/profiles/me/picture", alice, "picture", pngBytes(t, 120, 80))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.apiRequest(t, http.MethodGet, "/api/profiles/alice", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile struct {
		Location   string  `json:"location"`
		BirthDate  *string `json:"birth_date"`
		PictureURL *string `json:"picture_url"`
	}
	decode(t, resp, &profile)
	assert.Equal(t, "Lisbon", profile.Location)
	require.NotNil(t, profile.BirthDate)
	assert.Equal(t, "1990-04-01", *profile.BirthDate)
	require.NotNil(t, profile.PictureURL)

	resp = env.apiRequest(t, http.MethodGet, *profile.PictureURL, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	resp = env.apiRequest(t, http.MethodGet, "/api/profiles/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImagesUploadAndList(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")

	resp := env.upload(t, "/api/images", alice, "photo", []byte("definitely not an image"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.upload(t, "/api/images", alice, "photo", pngBytes(t, 200, 100))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var uploaded struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}
	decode(t, resp, &uploaded)
	assert.Equal(t, 64, uploaded.Width)
	assert.Equal(t, 32, uploaded.Height)

	resp = env.apiRequest(t, http.MethodGet, "/api/images", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, resp, &list)
	assert.Equal(t, 1, list.Total)

	resp = env.apiRequest(t, http.MethodGet, uploaded.URL, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.apiRequest(t, http.MethodGet, "/media/images/missing.jpg", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
