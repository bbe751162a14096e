package groups

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	groupsdomain "social-app-go/internal/domain/groups"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/pkg/logger"
)

const (
	MessageJoined        = "You are now a member of this group!"
	MessageAlreadyMember = "You are already a member of this group."
	MessageLeft          = "You have left the group."
	MessageNotMember     = "You are not in this group."
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type groupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount *int64    `json:"member_count,omitempty"`
	PostCount   *int64    `json:"post_count,omitempty"`
}

type groupListResponse struct {
	Items []groupResponse `json:"items"`
	Total int             `json:"total"`
}

type memberResponse struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

type memberListResponse struct {
	Items []memberResponse `json:"items"`
	Total int              `json:"total"`
}

type membershipResponse struct {
	Group  groupResponse        `json:"group"`
	Notice commonhandler.Notice `json:"notice"`
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	items, err := h.Groups.ListGroups(r.Context())
	if err != nil {
		logger.FromContext(r.Context(), h.log).InternalError("groups.list: list groups failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]groupResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toGroupStatsResponse(item))
	}

	writeJSON(w, http.StatusOK, groupListResponse{Items: response, Total: len(response)})
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.log)

	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	group, err := h.Groups.CreateGroup(r.Context(), req.Name, req.Description)
	if err != nil {
		switch {
		case groupsdomain.IsValidation(err):
			log.BusinessError("groups.create: invalid input", err, "name", req.Name)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, groupsdomain.ErrGroupExists):
			log.BusinessError("groups.create: group exists", err, "name", req.Name)
			writeError(w, http.StatusConflict, "group_exists", "group already exists")
		default:
			log.InternalError("groups.create: create group failed", err, "name", req.Name)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(*group))
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	stats, err := h.Groups.GetGroup(r.Context(), slug)
	if err != nil {
		h.writeLookupError(w, r, "groups.get", slug, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupStatsResponse(*stats))
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	members, err := h.Groups.ListMembers(r.Context(), slug)
	if err != nil {
		h.writeLookupError(w, r, "groups.list_members", slug, err)
		return
	}

	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, memberResponse{
			UserID:   member.UserID,
			Username: member.Username,
			JoinedAt: member.JoinedAt,
		})
	}

	writeJSON(w, http.StatusOK, memberListResponse{Items: response, Total: len(response)})
}

// JoinGroup adds the caller to the group. Joining twice is reported as a warning.
func (h *Handlers) JoinGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	slug := chi.URLParam(r, "slug")
	log := logger.FromContext(r.Context(), h.log)

	group, err := h.Groups.Join(r.Context(), user.ID, slug)
	notice := commonhandler.Notice{Level: "success", Message: MessageJoined}
	if err != nil {
		if !errors.Is(err, groupsdomain.ErrAlreadyMember) {
			h.writeLookupError(w, r, "groups.join", slug, err)
			return
		}
		log.BusinessError("groups.join: already member", err, "user_id", user.ID, "slug", slug)
		notice = commonhandler.Notice{Level: "warning", Message: MessageAlreadyMember}
	}

	writeJSON(w, http.StatusOK, membershipResponse{Group: toGroupResponse(*group), Notice: notice})
}

// LeaveGroup removes the caller from the group. Leaving without a membership is
// reported as a warning.
func (h *Handlers) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	slug := chi.URLParam(r, "slug")
	log := logger.FromContext(r.Context(), h.log)

	group, err := h.Groups.Leave(r.Context(), user.ID, slug)
	notice := commonhandler.Notice{Level: "success", Message: MessageLeft}
	if err != nil {
		if !errors.Is(err, groupsdomain.ErrNotMember) {
			h.writeLookupError(w, r, "groups.leave", slug, err)
			return
		}
		log.BusinessError("groups.leave: not a member", err, "user_id", user.ID, "slug", slug)
		notice = commonhandler.Notice{Level: "warning", Message: MessageNotMember}
	}

	writeJSON(w, http.StatusOK, membershipResponse{Group: toGroupResponse(*group), Notice: notice})
}

func (h *Handlers) writeLookupError(w http.ResponseWriter, r *http.Request, op, slug string, err error) {
	log := logger.FromContext(r.Context(), h.log)
	if errors.Is(err, groupsdomain.ErrGroupNotFound) {
		log.BusinessError(op+": group not found", err, "slug", slug)
		writeError(w, http.StatusNotFound, "group_not_found", "group not found")
		return
	}
	log.InternalError(op+": failed", err, "slug", slug)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func toGroupResponse(group groupsdomain.Group) groupResponse {
	return groupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Slug:        group.Slug,
		Description: group.Description,
		CreatedAt:   group.CreatedAt,
	}
}

func toGroupStatsResponse(stats groupsdomain.GroupStats) groupResponse {
	response := toGroupResponse(stats.Group)
	members := stats.MemberCount
	posts := stats.PostCount
	response.MemberCount = &members
	response.PostCount = &posts
	return response
}
