package ui

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
	groupsdomain "social-app-go/internal/domain/groups"
	profilesdomain "social-app-go/internal/domain/profiles"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	"social-app-go/internal/transport/httpserver/middleware"
)

type profileForm struct {
	Bio        string
	Location   string
	BirthDate  string
	PictureKey string
	Errors     []string
}

func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	view, err := h.Profiles.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, profilesdomain.ErrProfileNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, "ui.profile: get profile failed", err)
		return
	}

	joined, err := h.Groups.ListUserGroups(r.Context(), view.UserID)
	if err != nil {
		h.serverError(w, r, "ui.profile: list groups failed", err)
		return
	}

	user, signedIn := middleware.UserFromContext(r.Context())
	own := signedIn && user.ID == view.UserID

	details := []Node{}
	if view.Location != "" {
		details = append(details, P(Strong(Text("Location: ")), Text(view.Location)))
	}
	if date := view.BirthDateString(); date != "" {
		details = append(details, P(Strong(Text("Birth date: ")), Text(date)))
	}

	renderHTML(w, http.StatusOK, h.page(r, "@"+view.Username,
		Section(Class("card"),
			If(view.PictureKey != "", Img(Class("avatar"), Src(commonhandler.MediaURL(view.PictureKey)), Alt(view.Username), Attr("width", "160"))),
			H1(Text("@"+view.Username)),
			If(view.Bio != "", P(Text(view.Bio))),
			Group(details),
			H2(Text("Groups")),
			If(len(joined) == 0, P(Text("Not a member of any group yet."))),
			If(len(joined) > 0, Ul(Class("joined-groups"), Map(joined, func(group groupsdomain.Group) Node {
				return Li(A(Href(groupPath(group.Slug)), Text(group.Name)))
			}))),
			P(
				A(Href(userPostsPath(view.Username)), Text("Posts")),
				If(own, Group{Text(" | "), A(Href("/profiles/me/edit"), Text("Edit profile"))}),
			),
		),
	))
}

func (h *Handler) EditProfilePage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.Profiles.GetByUserID(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, "ui.edit_profile: get profile failed", err)
		return
	}

	renderHTML(w, http.StatusOK, h.editProfileView(r, profileForm{
		Bio:        profile.Bio,
		Location:   profile.Location,
		BirthDate:  profile.BirthDateString(),
		PictureKey: profile.PictureKey,
	}))
}

// UpdateProfile saves the text fields and, when a file was chosen, the picture.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	log := h.requestLog(r)

	form := profileForm{
		Bio:       r.FormValue("bio"),
		Location:  r.FormValue("location"),
		BirthDate: r.FormValue("birth_date"),
	}

	profile, err := h.Profiles.Update(r.Context(), user.ID, profilesdomain.UpdateInput{
		Bio:       form.Bio,
		Location:  form.Location,
		BirthDate: form.BirthDate,
	})
	if err != nil {
		if !profilesdomain.IsValidation(err) {
			h.serverError(w, r, "ui.edit_profile: update failed", err)
			return
		}
		log.BusinessError("ui.edit_profile: invalid input", err, "user_id", user.ID)
		form.Errors = []string{err.Error()}
		renderHTML(w, http.StatusBadRequest, h.editProfileView(r, form))
		return
	}
	form.PictureKey = profile.PictureKey

	if isMultipart(r) {
		file, err := commonhandler.OpenUpload(w, r, "picture", h.MaxUploadBytes)
		switch {
		case errors.Is(err, commonhandler.ErrUploadMissing):
		case err != nil:
			h.rejectPicture(w, r, form, user.ID, err)
			return
		default:
			defer commonhandler.CloseUpload(r, file)
			if _, err := h.Profiles.SetPicture(r.Context(), user.ID, file); err != nil {
				h.rejectPicture(w, r, form, user.ID, err)
				return
			}
		}
	}

	h.setFlash(w, flashSuccess, "Profile updated.")
	redirect(w, r, profilePath(user.Username))
}

func (h *Handler) rejectPicture(w http.ResponseWriter, r *http.Request, form profileForm, userID string, err error) {
	status, _, message, ok := commonhandler.UploadError(err)
	if !ok {
		h.serverError(w, r, "ui.edit_profile: set picture failed", err)
		return
	}
	h.requestLog(r).BusinessError("ui.edit_profile: rejected picture", err, "user_id", userID)
	form.Errors = []string{"Profile saved, but the picture was rejected: " + message + "."}
	renderHTML(w, status, h.editProfileView(r, form))
}

func (h *Handler) editProfileView(r *http.Request, form profileForm) Node {
	return h.page(r, "Edit profile",
		Section(Class("card"),
			H1(Text("Edit profile")),
			formErrors(form.Errors),
			If(form.PictureKey != "", Img(Class("avatar"), Src(commonhandler.MediaURL(form.PictureKey)), Alt("Profile picture"), Attr("width", "120"))),
			Form(Method("post"), Action("/profiles/me/edit"), Attr("enctype", "multipart/form-data"),
				csrfField(r),
				field("Bio", "bio", Textarea(ID("bio"), Name("bio"), Attr("rows", "4"), Text(form.Bio))),
				textInput("Location", "location", "text", form.Location, Attr("maxlength", "30")),
				textInput("Birth date", "birth_date", "date", form.BirthDate),
				field("Picture", "picture", Input(Type("file"), ID("picture"), Name("picture"), Attr("accept", "image/jpeg,image/png,image/webp"))),
				Button(Type("submit"), Text("Save")),
			),
		),
	)
}
