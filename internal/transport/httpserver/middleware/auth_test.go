package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"social-app-go/internal/auth"
	"social-app-go/internal/config"
	"social-app-go/pkg/logger"
)

type recordingSaver struct {
	mu    sync.Mutex
	calls []string
}

func (s *recordingSaver) EnsureUser(_ context.Context, id, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, id+":"+username)
	return nil
}

func newTestAuth(t *testing.T, cfg config.AuthConfig, saver UserSaver) *Auth {
	t.Helper()
	tokens, err := auth.NewTokens("secret", time.Hour)
	require.NoError(t, err)
	return NewAuth(cfg, tokens, saver, false, logger.Discard())
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_, _ = w.Write([]byte(user.Username))
}

func TestBearerSetsUser(t *testing.T) {
	a := newTestAuth(t, config.AuthConfig{}, nil)
	token, _, err := a.Issue(User{ID: "u-1", Username: "alice"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()

	a.Bearer(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestBearerWithoutHeaderIsAnonymous(t *testing.T) {
	a := newTestAuth(t, config.AuthConfig{}, nil)
	rec := httptest.NewRecorder()

	a.Bearer(http.HandlerFunc(echoUser)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBearerRejectsInvalidToken(t *testing.T) {
	a := newTestAuth(t, config.AuthConfig{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	a.Bearer(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token")
}

func TestSessionClearsInvalidCookie(t *testing.T) {
	a := newTestAuth(t, config.AuthConfig{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()

	a.Session(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSessionReadsIssuedCookie(t *testing.T) {
	a := newTestAuth(t, config.AuthConfig{}, nil)

	login := httptest.NewRecorder()
	require.NoError(t, a.StartSession(login, User{ID: "u-1", Username: "alice"}))
	cookies := login.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	a.Session(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)

	assert.Equal(t, "alice", rec.Body.String())
}

func TestSkipAuthUsesMockUser(t *testing.T) {
	saver := &recordingSaver{}
	a := newTestAuth(t, config.AuthConfig{SkipAuth: true, MockUserID: "mock-id", MockUsername: "dev"}, saver)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer ignored")
	rec := httptest.NewRecorder()

	a.Bearer(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)

	assert.Equal(t, "dev", rec.Body.String())
	assert.Equal(t, []string{"mock-id:dev"}, saver.calls)
}

func TestRequireUser(t *testing.T) {
	handler := RequireUser(http.HandlerFunc(echoUser))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), User{ID: "u-1", Username: "alice"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		value string
		token string
		ok    bool
	}{
		{value: "Bearer abc", token: "abc", ok: true},
		{value: "bearer abc", token: "abc", ok: true},
		{value: "Basic abc", ok: false},
		{value: "Bearer", ok: false},
		{value: "Bearer a b", ok: false},
	}
	for _, tt := range tests {
		token, ok := bearerToken(tt.value)
		assert.Equal(t, tt.ok, ok, tt.value)
		assert.Equal(t, tt.token, token, tt.value)
	}
}
