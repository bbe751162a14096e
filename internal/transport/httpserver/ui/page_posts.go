package ui

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
	groupsdomain "social-app-go/internal/domain/groups"
	postsdomain "social-app-go/internal/domain/posts"
	userdomain "social-app-go/internal/domain/user"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
)

type postForm struct {
	Message string
	GroupID string
	Groups  []groupsdomain.GroupStats
	Errors  []string
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	filter, err := commonhandler.PageFilter(r, h.Posts.PageSize())
	if err != nil {
		h.notFound(w, r)
		return
	}

	page, err := h.Posts.ListAll(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, "ui.home: list posts failed", err)
		return
	}

	renderHTML(w, http.StatusOK, h.page(r, "Posts",
		H1(Text("Latest posts")),
		postList(page, "/"),
	))
}

func (h *Handler) NewPostPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}

	form := postForm{}
	groups, err := h.Groups.ListGroups(r.Context())
	if err != nil {
		h.serverError(w, r, "ui.new_post: list groups failed", err)
		return
	}
	form.Groups = groups

	if slug := r.URL.Query().Get("group"); slug != "" {
		for _, group := range groups {
			if group.Slug == slug {
				form.GroupID = group.ID
			}
		}
	}

	renderHTML(w, http.StatusOK, h.newPostView(r, form))
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	form := postForm{
		Message: r.FormValue("message"),
		GroupID: strings.TrimSpace(r.FormValue("group")),
	}

	var groupID *string
	if form.GroupID != "" {
		groupID = &form.GroupID
	}

	post, err := h.Posts.Create(r.Context(), postsdomain.CreateInput{
		UserID:  user.ID,
		Message: form.Message,
		GroupID: groupID,
	})
	if err != nil {
		switch {
		case errors.Is(err, postsdomain.ErrMessageRequired):
			form.Errors = []string{"Please write a message."}
		case errors.Is(err, postsdomain.ErrGroupNotFound):
			form.Errors = []string{"Select a valid group."}
		default:
			h.serverError(w, r, "ui.create_post: create failed", err)
			return
		}
		h.requestLog(r).BusinessError("ui.create_post: rejected", err, "user_id", user.ID)

		groups, listErr := h.Groups.ListGroups(r.Context())
		if listErr != nil {
			h.serverError(w, r, "ui.create_post: list groups failed", listErr)
			return
		}
		form.Groups = groups
		renderHTML(w, http.StatusBadRequest, h.newPostView(r, form))
		return
	}

	h.setFlash(w, flashSuccess, "Post created successfully.")
	redirect(w, r, postPath(user.Username, post.ID))
}

func (h *Handler) UserPosts(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	filter, err := commonhandler.PageFilter(r, h.Posts.PageSize())
	if err != nil {
		h.notFound(w, r)
		return
	}

	author, page, err := h.Posts.ListByUsername(r.Context(), username, filter)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, "ui.user_posts: list posts failed", err)
		return
	}

	renderHTML(w, http.StatusOK, h.page(r, "@"+author.Username,
		H1(Text("Posts by @"+author.Username)),
		P(Class("meta"),
			A(Href(profilePath(author.Username)), Text("View profile")),
			Textf(" | %d posts", page.Total),
		),
		postList(page, userPostsPath(author.Username)),
	))
}

func (h *Handler) PostDetail(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	postID := chi.URLParam(r, "post_id")

	post, err := h.Posts.GetForUser(r.Context(), username, postID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) || errors.Is(err, postsdomain.ErrPostNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, "ui.post_detail: get post failed", err)
		return
	}

	user, signedIn := middleware.UserFromContext(r.Context())
	owner := signedIn && user.ID == post.UserID

	renderHTML(w, http.StatusOK, h.page(r, "Post",
		postCard(*post),
		If(owner, P(A(Href("/posts/"+post.ID+"/delete"), Text("Delete this post")))),
	))
}

// DeletePostPage asks for confirmation. Only the author can reach it.
func (h *Handler) DeletePostPage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	postID := chi.URLParam(r, "post_id")

	post, err := h.Posts.GetForUser(r.Context(), user.Username, postID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) || errors.Is(err, postsdomain.ErrPostNotFound) {
			h.requestLog(r).BusinessError("ui.delete_post: post not found", err, "user_id", user.ID, "post_id", postID)
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, "ui.delete_post: get post failed", err)
		return
	}

	renderHTML(w, http.StatusOK, h.page(r, "Delete post",
		H1(Text("Delete post")),
		postCard(*post),
		Form(Method("post"), Action("/posts/"+post.ID+"/delete"),
			csrfField(r),
			P(Text("Are you sure you want to delete this post?")),
			Button(Type("submit"), Text("Delete")),
			Text(" "),
			A(Href(postPath(post.Username, post.ID)), Text("Cancel")),
		),
	))
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	postID := chi.URLParam(r, "post_id")

	if err := h.Posts.Delete(r.Context(), user.ID, postID); err != nil {
		if errors.Is(err, postsdomain.ErrPostNotFound) {
			h.requestLog(r).BusinessError("ui.delete_post: post not found", err, "user_id", user.ID, "post_id", postID)
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, "ui.delete_post: delete failed", err)
		return
	}

	h.setFlash(w, flashSuccess, "Post Deleted")
	redirect(w, r, "/")
}

func (h *Handler) newPostView(r *http.Request, form postForm) Node {
	options := []Node{Option(Value(""), Text("No group"))}
	for _, group := range form.Groups {
		options = append(options, Option(
			Value(group.ID),
			If(group.ID == form.GroupID, Selected()),
			Text(group.Name),
		))
	}

	return h.page(r, "New post",
		Section(Class("card"),
			H1(Text("New post")),
			formErrors(form.Errors),
			Form(Method("post"), Action("/posts/new"),
				csrfField(r),
				field("Message", "message", Textarea(ID("message"), Name("message"), Attr("rows", "5"), Required(), Text(form.Message))),
				field("Group", "group", Select(append([]Node{ID("group"), Name("group")}, options...)...)),
				Button(Type("submit"), Text("Post")),
			),
		),
	)
}
