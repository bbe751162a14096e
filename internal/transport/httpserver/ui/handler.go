package ui

import (
	"net/http"
	"net/url"
	"strings"

	gomponents "maragu.dev/gomponents"
	groupsdomain "social-app-go/internal/domain/groups"
	imagesdomain "social-app-go/internal/domain/images"
	postsdomain "social-app-go/internal/domain/posts"
	profilesdomain "social-app-go/internal/domain/profiles"
	userdomain "social-app-go/internal/domain/user"
	"social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/pkg/logger"
)

// Sessions starts and ends browser sessions.
type Sessions interface {
	StartSession(w http.ResponseWriter, user middleware.User) error
	ClearSession(w http.ResponseWriter)
}

type Services struct {
	Accounts *userdomain.Service
	Groups   *groupsdomain.Service
	Posts    *postsdomain.Service
	Profiles *profilesdomain.Service
	Images   *imagesdomain.Service
}

// Handler serves the server-rendered pages.
type Handler struct {
	Services
	Sessions       Sessions
	Production     bool
	MaxUploadBytes int64
	log            logger.Logger
}

func NewHandler(services Services, sessions Sessions, production bool, maxUploadBytes int64, log logger.Logger) *Handler {
	return &Handler{
		Services:       services,
		Sessions:       sessions,
		Production:     production,
		MaxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

func (h *Handler) requestLog(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// requireUser returns the signed-in user or sends the browser to the login page.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if ok {
		return user, true
	}
	redirect(w, r, "/accounts/login?next="+url.QueryEscape(r.URL.RequestURI()))
	return middleware.User{}, false
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusNotFound, h.page(r, "Not found",
		errorContent("Page not found", "The page you requested does not exist."),
	))
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.requestLog(r).InternalError(op, err, "path", r.URL.Path)
	renderHTML(w, http.StatusInternalServerError, h.page(r, "Error",
		errorContent("Something went wrong", "Please try again later."),
	))
}

// safeNext accepts only local paths as a post-login destination.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
