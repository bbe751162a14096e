package ui

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookieName = "flash"

type flashLevel string

const (
	flashSuccess flashLevel = "success"
	flashWarning flashLevel = "warning"
	flashInfo    flashLevel = "info"
)

type flash struct {
	Level   flashLevel
	Message string
}

type flashContextKey struct{}

// setFlash stores a one-shot notice for the next rendered page.
func (h *Handler) setFlash(w http.ResponseWriter, level flashLevel, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(string(level) + "\n" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Production,
		SameSite: http.SameSiteLaxMode,
	})
}

// LoadFlash moves a pending notice from its cookie into the request context and
// clears the cookie, so each notice is shown once.
func (h *Handler) LoadFlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(flashCookieName)
		if err != nil || cookie.Value == "" || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.Production,
			SameSite: http.SameSiteLaxMode,
		})

		notice, ok := decodeFlash(cookie.Value)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), flashContextKey{}, notice)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func flashFromContext(ctx context.Context) (flash, bool) {
	notice, ok := ctx.Value(flashContextKey{}).(flash)
	return notice, ok
}

func decodeFlash(value string) (flash, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return flash{}, false
	}
	level, message, ok := strings.Cut(string(raw), "\n")
	if !ok || message == "" {
		return flash{}, false
	}
	switch flashLevel(level) {
	case flashSuccess, flashWarning, flashInfo:
		return flash{Level: flashLevel(level), Message: message}, true
	default:
		return flash{}, false
	}
}
