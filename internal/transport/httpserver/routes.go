package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"social-app-go/internal/config"
	"social-app-go/internal/transport/httpserver/handler"
	authmw "social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/internal/transport/httpserver/ui"
	"social-app-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, pages *ui.Handler, auth *authmw.Auth, limiter *authmw.RateLimiter, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/media/*", handlers.Images.ServeMedia)

	r.Route("/api", func(r chi.Router) {
		r.Use(authmw.NewCORS(cfg.HTTP.AllowedOrigins))
		r.Use(auth.Bearer)

		r.Get("/health", handlers.Common.Health)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/accounts/signup", handlers.Accounts.Signup)
			r.Post("/accounts/login", handlers.Accounts.Login)
		})

		r.Get("/groups", handlers.Groups.ListGroups)
		r.Get("/groups/{slug}", handlers.Groups.GetGroup)
		r.Get("/groups/{slug}/members", handlers.Groups.ListMembers)

		r.Get("/posts", handlers.Posts.ListPosts)
		r.Get("/posts/by/{username}", handlers.Posts.ListUserPosts)
		r.Get("/posts/by/{username}/{post_id}", handlers.Posts.GetPost)

		r.Get("/profiles/{username}", handlers.Profiles.GetProfile)

		r.Get("/images", handlers.Images.ListImages)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireUser)

			r.Get("/auth/me", handlers.Common.AuthMe)

			r.Post("/groups", handlers.Groups.CreateGroup)
			r.Get("/groups/{slug}/join", handlers.Groups.JoinGroup)
			r.Post("/groups/{slug}/join", handlers.Groups.JoinGroup)
			r.Get("/groups/{slug}/leave", handlers.Groups.LeaveGroup)
			r.Post("/groups/{slug}/leave", handlers.Groups.LeaveGroup)

			r.Post("/posts/create", handlers.Posts.CreatePost)
			r.Post("/posts/{post_id}/delete", handlers.Posts.DeletePost)
			r.Delete("/posts/{post_id}", handlers.Posts.DeletePost)

			r.Put("/profiles/me", handlers.Profiles.UpdateProfile)
			r.Post("/profiles/me/picture", handlers.Profiles.UploadPicture)

			r.Post("/images", handlers.Images.UploadImage)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Session)
		pages.Mount(r, limiter.Middleware)
	})

	return r
}
