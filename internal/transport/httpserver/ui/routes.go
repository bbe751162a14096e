package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mount registers the pages. limit guards the account forms.
func (h *Handler) Mount(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(h.EnsureCSRFToken)
		r.Use(h.RequireCSRF)
		r.Use(h.LoadFlash)

		r.Get("/", h.Home)

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/signup", h.SignupPage)
			r.Get("/login", h.LoginPage)
			r.With(limit).Post("/signup", h.Signup)
			r.With(limit).Post("/login", h.Login)
			r.Get("/logout", h.LogoutPage)
			r.Post("/logout", h.Logout)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.GroupList)
			r.Get("/new", h.NewGroupPage)
			r.Post("/new", h.CreateGroup)
			r.Get("/{slug}", h.GroupDetail)
			r.Get("/{slug}/join", h.JoinGroup)
			r.Post("/{slug}/join", h.JoinGroup)
			r.Get("/{slug}/leave", h.LeaveGroup)
			r.Post("/{slug}/leave", h.LeaveGroup)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/new", h.NewPostPage)
			r.Post("/new", h.CreatePost)
			r.Get("/by/{username}", h.UserPosts)
			r.Get("/by/{username}/{post_id}", h.PostDetail)
			r.Get("/{post_id}/delete", h.DeletePostPage)
			r.Post("/{post_id}/delete", h.DeletePost)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/me/edit", h.EditProfilePage)
			r.Post("/me/edit", h.UpdateProfile)
			r.Get("/{username}", h.ProfilePage)
		})

		r.Get("/images", h.ImagesPage)
		r.Post("/images", h.UploadImage)
	})
}
