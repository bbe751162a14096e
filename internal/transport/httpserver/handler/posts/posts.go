package posts

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	postsdomain "social-app-go/internal/domain/posts"
	userdomain "social-app-go/internal/domain/user"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/pkg/logger"
)

// createPostRequest accepts author fields so clients may send them, but the
// author is always the authenticated caller.
type createPostRequest struct {
	Message string          `json:"message"`
	GroupID *string         `json:"group_id"`
	User    json.RawMessage `json:"user,omitempty"`
	UserID  json.RawMessage `json:"user_id,omitempty"`
}

type postGroupResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type postResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Username  string             `json:"username,omitempty"`
	Message   string             `json:"message"`
	GroupID   *string            `json:"group_id"`
	Group     *postGroupResponse `json:"group,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type postListResponse struct {
	Items  []postResponse `json:"items"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type userPostsResponse struct {
	postListResponse
	Username string `json:"username"`
}

func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	filter, err := commonhandler.PageFilter(r, h.Posts.PageSize())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	page, err := h.Posts.ListAll(r.Context(), filter)
	if err != nil {
		logger.FromContext(r.Context(), h.log).InternalError("posts.list: list posts failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toPostListResponse(page))
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	log := logger.FromContext(r.Context(), h.log)

	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	post, err := h.Posts.Create(r.Context(), postsdomain.CreateInput{
		UserID:  user.ID,
		Message: req.Message,
		GroupID: req.GroupID,
	})
	if err != nil {
		switch {
		case errors.Is(err, postsdomain.ErrMessageRequired):
			log.BusinessError("posts.create: empty message", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invalid_request", "message is required")
		case errors.Is(err, postsdomain.ErrGroupNotFound):
			log.BusinessError("posts.create: group not found", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invalid_request", "group not found")
		default:
			log.InternalError("posts.create: create post failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, postResponse{
		ID:        post.ID,
		UserID:    post.UserID,
		Username:  user.Username,
		Message:   post.Message,
		GroupID:   post.GroupID,
		CreatedAt: post.CreatedAt,
	})
}

func (h *Handlers) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	log := logger.FromContext(r.Context(), h.log)

	filter, err := commonhandler.PageFilter(r, h.Posts.PageSize())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	author, page, err := h.Posts.ListByUsername(r.Context(), username, filter)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			log.BusinessError("posts.list_user: user not found", err, "username", username)
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		log.InternalError("posts.list_user: list posts failed", err, "username", username)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, userPostsResponse{
		postListResponse: toPostListResponse(page),
		Username:         author.Username,
	})
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	postID := chi.URLParam(r, "post_id")
	log := logger.FromContext(r.Context(), h.log)

	post, err := h.Posts.GetForUser(r.Context(), username, postID)
	if err != nil {
		switch {
		case errors.Is(err, userdomain.ErrUserNotFound):
			log.BusinessError("posts.get: user not found", err, "username", username)
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, postsdomain.ErrPostNotFound):
			log.BusinessError("posts.get: post not found", err, "username", username, "post_id", postID)
			writeError(w, http.StatusNotFound, "post_not_found", "post not found")
		default:
			log.InternalError("posts.get: get post failed", err, "username", username, "post_id", postID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(*post))
}

// DeletePost removes one of the caller's own posts. Posts of other users are
// reported as not found.
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	postID := chi.URLParam(r, "post_id")
	log := logger.FromContext(r.Context(), h.log)

	if err := h.Posts.Delete(r.Context(), user.ID, postID); err != nil {
		if errors.Is(err, postsdomain.ErrPostNotFound) {
			log.BusinessError("posts.delete: post not found", err, "user_id", user.ID, "post_id", postID)
			writeError(w, http.StatusNotFound, "post_not_found", "post not found")
			return
		}
		log.InternalError("posts.delete: delete post failed", err, "user_id", user.ID, "post_id", postID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toPostListResponse(page postsdomain.Page) postListResponse {
	items := make([]postResponse, 0, len(page.Posts))
	for _, post := range page.Posts {
		items = append(items, toPostResponse(post))
	}
	return postListResponse{
		Items:  items,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}

func toPostResponse(post postsdomain.PostView) postResponse {
	response := postResponse{
		ID:        post.ID,
		UserID:    post.UserID,
		Username:  post.Username,
		Message:   post.Message,
		GroupID:   post.GroupID,
		CreatedAt: post.CreatedAt,
	}
	if post.GroupID != nil && post.GroupName != nil && post.GroupSlug != nil {
		response.Group = &postGroupResponse{
			ID:   *post.GroupID,
			Name: *post.GroupName,
			Slug: *post.GroupSlug,
		}
	}
	return response
}
