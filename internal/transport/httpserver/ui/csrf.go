package ui

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"mime"
	"net/http"
	"strings"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

const (
	csrfCookieName = "ui_csrf"
	csrfFieldName  = "csrf_token"

	// multipartFormOverhead is the room left for text fields next to an upload.
	multipartFormOverhead = 1 << 20
)

type csrfContextKey struct{}

func (h *Handler) EnsureCSRFToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := readCSRFCookie(r)
		if token == "" {
			token = randomToken(32)
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   h.Production,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), csrfContextKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCSRF checks the double-submitted token on unsafe methods. Multipart bodies
// are parsed here so the token field is readable.
func (h *Handler) RequireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		cookieToken := readCSRFCookie(r)
		if cookieToken == "" {
			h.forbidden(w, r, "Missing CSRF token cookie.")
			return
		}

		formToken := strings.TrimSpace(r.Header.Get("X-CSRF-Token"))
		if formToken == "" {
			if isMultipart(r) {
				limit := h.MaxUploadBytes + multipartFormOverhead
				r.Body = http.MaxBytesReader(w, r.Body, limit)
				_ = r.ParseMultipartForm(limit)
			} else {
				_ = r.ParseForm()
			}
			formToken = strings.TrimSpace(r.FormValue(csrfFieldName))
		}

		if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(formToken)) != 1 {
			h.forbidden(w, r, "Invalid or missing CSRF token.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) forbidden(w http.ResponseWriter, r *http.Request, message string) {
	h.requestLog(r).Warn("ui.csrf: rejected request", "path", r.URL.Path, "reason", message)
	renderHTML(w, http.StatusForbidden, h.page(r, "Forbidden",
		errorContent("CSRF validation failed", message),
	))
}

func csrfField(r *http.Request) gomponents.Node {
	token, _ := r.Context().Value(csrfContextKey{}).(string)
	if token == "" {
		token = readCSRFCookie(r)
	}
	return html.Input(
		html.Type("hidden"),
		html.Name(csrfFieldName),
		html.Value(token),
	)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func readCSRFCookie(r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

func randomToken(size int) string {
	if size < 16 {
		size = 16
	}
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
