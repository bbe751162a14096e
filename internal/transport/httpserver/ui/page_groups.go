package ui

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
	groupsdomain "social-app-go/internal/domain/groups"
	postsdomain "social-app-go/internal/domain/posts"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	groupshandler "social-app-go/internal/transport/httpserver/handler/groups"
	"social-app-go/internal/transport/httpserver/middleware"
)

type groupForm struct {
	Name        string
	Description string
	Errors      []string
}

type groupDetail struct {
	stats    *groupsdomain.GroupStats
	members  []groupsdomain.Member
	posts    postsdomain.Page
	isMember bool
}

func (h *Handler) GroupList(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Groups.ListGroups(r.Context())
	if err != nil {
		h.serverError(w, r, "ui.groups: list groups failed", err)
		return
	}

	_, signedIn := middleware.UserFromContext(r.Context())

	var items Node = P(Class("meta"), Text("No groups yet."))
	if len(groups) > 0 {
		items = Map(groups, func(group groupsdomain.GroupStats) Node {
			return Article(Class("card"),
				H2(A(Href(groupPath(group.Slug)), Text(group.Name))),
				If(group.Description != "", P(Text(group.Description))),
				P(Class("meta"), Textf("%d members | %d posts", group.MemberCount, group.PostCount)),
			)
		})
	}

	renderHTML(w, http.StatusOK, h.page(r, "Groups",
		H1(Text("Groups")),
		If(signedIn, P(A(Href("/groups/new"), Text("Create a group")))),
		Div(items),
	))
}

func (h *Handler) NewGroupPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	renderHTML(w, http.StatusOK, h.newGroupView(r, groupForm{}))
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	form := groupForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}

	group, err := h.Groups.CreateGroup(r.Context(), form.Name, form.Description)
	if err != nil {
		switch {
		case groupsdomain.IsValidation(err):
			form.Errors = []string{err.Error()}
		case errors.Is(err, groupsdomain.ErrGroupExists):
			form.Errors = []string{"A group with that name already exists."}
		default:
			h.serverError(w, r, "ui.create_group: create failed", err)
			return
		}
		h.requestLog(r).BusinessError("ui.create_group: rejected", err, "user_id", user.ID, "name", form.Name)
		renderHTML(w, http.StatusBadRequest, h.newGroupView(r, form))
		return
	}

	h.setFlash(w, flashSuccess, "Group created.")
	redirect(w, r, groupPath(group.Slug))
}

// GroupDetail loads the group, then its members, posts and the viewer's membership
// in parallel.
func (h *Handler) GroupDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	filter, err := commonhandler.PageFilter(r, h.Posts.PageSize())
	if err != nil {
		h.notFound(w, r)
		return
	}

	stats, err := h.Groups.GetGroup(r.Context(), slug)
	if err != nil {
		if errors.Is(err, groupsdomain.ErrGroupNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, "ui.group: get group failed", err)
		return
	}

	user, signedIn := middleware.UserFromContext(r.Context())
	detail := groupDetail{stats: stats}

	eg, ctx := errgroup.WithContext(r.Context())
	eg.Go(func() error {
		members, err := h.Groups.ListMembers(ctx, stats.Slug)
		detail.members = members
		return err
	})
	eg.Go(func() error {
		page, err := h.Posts.ListByGroup(ctx, stats.ID, filter)
		detail.posts = page
		return err
	})
	if signedIn {
		eg.Go(func() error {
			isMember, err := h.Groups.IsMember(ctx, user.ID, stats.ID)
			detail.isMember = isMember
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		h.serverError(w, r, "ui.group: load group page failed", err)
		return
	}

	renderHTML(w, http.StatusOK, h.groupView(r, signedIn, detail))
}

func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")

	group, err := h.Groups.Join(r.Context(), user.ID, slug)
	switch {
	case err == nil:
		h.setFlash(w, flashSuccess, groupshandler.MessageJoined)
	case errors.Is(err, groupsdomain.ErrAlreadyMember):
		h.requestLog(r).BusinessError("ui.join: already member", err, "user_id", user.ID, "slug", slug)
		h.setFlash(w, flashWarning, groupshandler.MessageAlreadyMember)
	case errors.Is(err, groupsdomain.ErrGroupNotFound):
		h.notFound(w, r)
		return
	default:
		h.serverError(w, r, "ui.join: join failed", err)
		return
	}

	redirect(w, r, groupPath(group.Slug))
}

func (h *Handler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")

	group, err := h.Groups.Leave(r.Context(), user.ID, slug)
	switch {
	case err == nil:
		h.setFlash(w, flashSuccess, groupshandler.MessageLeft)
	case errors.Is(err, groupsdomain.ErrNotMember):
		h.requestLog(r).BusinessError("ui.leave: not a member", err, "user_id", user.ID, "slug", slug)
		h.setFlash(w, flashWarning, groupshandler.MessageNotMember)
	case errors.Is(err, groupsdomain.ErrGroupNotFound):
		h.notFound(w, r)
		return
	default:
		h.serverError(w, r, "ui.leave: leave failed", err)
		return
	}

	redirect(w, r, groupPath(group.Slug))
}

func (h *Handler) groupView(r *http.Request, signedIn bool, detail groupDetail) Node {
	group := detail.stats

	var membership Node
	switch {
	case !signedIn:
		membership = P(A(Href("/accounts/login?next="+groupPath(group.Slug)), Text("Log in to join this group")))
	case detail.isMember:
		membership = Form(Method("post"), Action(groupPath(group.Slug)+"/leave"),
			csrfField(r),
			Button(Type("submit"), Text("Leave group")),
			Text(" "),
			A(Href("/posts/new?group="+group.Slug), Text("Post in this group")),
		)
	default:
		membership = Form(Method("post"), Action(groupPath(group.Slug)+"/join"),
			csrfField(r),
			Button(Type("submit"), Text("Join group")),
		)
	}

	return h.page(r, group.Name,
		Section(Class("card"),
			H1(Text(group.Name)),
			If(group.Description != "", P(Text(group.Description))),
			P(Class("meta"), Textf("%d members | %d posts", group.MemberCount, group.PostCount)),
			membership,
		),
		Section(
			H2(Text("Members")),
			If(len(detail.members) == 0, P(Class("meta"), Text("No members yet."))),
			Ul(Map(detail.members, func(member groupsdomain.Member) Node {
				return Li(A(Href(profilePath(member.Username)), Text("@"+member.Username)))
			})),
		),
		Section(
			H2(Text("Posts")),
			postList(detail.posts, groupPath(group.Slug)),
		),
	)
}

func (h *Handler) newGroupView(r *http.Request, form groupForm) Node {
	return h.page(r, "New group",
		Section(Class("card"),
			H1(Text("New group")),
			formErrors(form.Errors),
			Form(Method("post"), Action("/groups/new"),
				csrfField(r),
				textInput("Name", "name", "text", form.Name, Required(), Attr("maxlength", "255")),
				field("Description", "description", Textarea(ID("description"), Name("description"), Attr("rows", "4"), Text(form.Description))),
				Button(Type("submit"), Text("Create")),
			),
		),
	)
}
