package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"social-app-go/internal/auth"
	"social-app-go/internal/config"
	"social-app-go/pkg/logger"
)

const SessionCookieName = "session"

type contextKey int

const userKey contextKey = 0

type User struct {
	ID       string
	Username string
}

// UserSaver makes sure the development mock user exists before it acts.
type UserSaver interface {
	EnsureUser(ctx context.Context, id, username string) error
}

type Auth struct {
	tokens   *auth.Tokens
	users    UserSaver
	skipAuth bool
	mockUser User
	secure   bool
	log      logger.Logger
}

func NewAuth(cfg config.AuthConfig, tokens *auth.Tokens, users UserSaver, secureCookies bool, log logger.Logger) *Auth {
	return &Auth{
		tokens:   tokens,
		users:    users,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:       strings.TrimSpace(cfg.MockUserID),
			Username: strings.TrimSpace(cfg.MockUsername),
		},
		secure: secureCookies,
		log:    log,
	}
}

// Bearer identifies API callers from the Authorization header. Requests without a
// valid token continue anonymously.
func (a *Auth) Bearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := a.mock(r.Context()); ok {
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := a.tokens.Parse(token)
		if err != nil {
			logger.FromContext(r.Context(), a.log).BusinessError("auth: bearer token rejected", err)
			unauthorized(w)
			return
		}

		user := User{ID: identity.UserID, Username: identity.Username}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Session identifies browser users from the session cookie. An invalid cookie is
// cleared and the request continues anonymously.
func (a *Auth) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := a.mock(r.Context()); ok {
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}

		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := a.tokens.Parse(cookie.Value)
		if err != nil {
			logger.FromContext(r.Context(), a.log).BusinessError("auth: session cookie rejected", err)
			a.ClearSession(w)
			next.ServeHTTP(w, r)
			return
		}

		user := User{ID: identity.UserID, Username: identity.Username}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireUser rejects anonymous API requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Issue signs a token for user.
func (a *Auth) Issue(user User) (string, time.Time, error) {
	return a.tokens.Issue(auth.Identity{UserID: user.ID, Username: user.Username})
}

func (a *Auth) StartSession(w http.ResponseWriter, user User) error {
	token, expiresAt, err := a.Issue(user)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (a *Auth) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) mock(ctx context.Context) (User, bool) {
	if !a.skipAuth || a.mockUser.ID == "" {
		return User{}, false
	}
	if a.users != nil {
		if err := a.users.EnsureUser(ctx, a.mockUser.ID, a.mockUser.Username); err != nil {
			logger.FromContext(ctx, a.log).InternalError("auth: ensure mock user failed", err, "user_id", a.mockUser.ID)
		}
	}
	return a.mockUser, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}
