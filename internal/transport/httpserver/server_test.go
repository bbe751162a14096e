package httpserver

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"social-app-go/internal/auth"
	"social-app-go/internal/config"
	groupsdomain "social-app-go/internal/domain/groups"
	imagesdomain "social-app-go/internal/domain/images"
	postsdomain "social-app-go/internal/domain/posts"
	profilesdomain "social-app-go/internal/domain/profiles"
	userdomain "social-app-go/internal/domain/user"
	"social-app-go/internal/repository/inmemory"
	groupsrepo "social-app-go/internal/repository/postgres/groups"
	imagesrepo "social-app-go/internal/repository/postgres/images"
	postsrepo "social-app-go/internal/repository/postgres/posts"
	profilesrepo "social-app-go/internal/repository/postgres/profiles"
	userrepo "social-app-go/internal/repository/postgres/user"
	"social-app-go/internal/repository/testdb"
	"social-app-go/internal/storage"
	"social-app-go/internal/transport/httpserver/handler"
	accountshandler "social-app-go/internal/transport/httpserver/handler/accounts"
	commonhandler "social-app-go/internal/transport/httpserver/handler/common"
	groupshandler "social-app-go/internal/transport/httpserver/handler/groups"
	imageshandler "social-app-go/internal/transport/httpserver/handler/images"
	postshandler "social-app-go/internal/transport/httpserver/handler/posts"
	profileshandler "social-app-go/internal/transport/httpserver/handler/profiles"
	authmw "social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/internal/transport/httpserver/ui"
	"social-app-go/pkg/logger"
)

const testMaxUploadBytes = 1 << 20

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard()
	dbConn := testdb.Open(t)

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	imageOptions := storage.ImageOptions{MaxBytes: testMaxUploadBytes, MaxDim: 64}

	profilesService := profilesdomain.NewService(profilesrepo.NewPostgres(dbConn), store, imageOptions, log)
	userService := userdomain.NewService(userrepo.NewPostgres(dbConn), profilesService, 8)
	groupsService := groupsdomain.NewService(groupsrepo.NewPostgres(dbConn), inmemory.NewGroupCache(), time.Minute)
	postsService := postsdomain.NewService(postsrepo.NewPostgres(dbConn), userService, 10)
	imagesService := imagesdomain.NewService(imagesrepo.NewPostgres(dbConn), store, imageOptions, log)

	cfg := config.Config{
		Auth: config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour},
		HTTP: config.HTTPConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
	authMiddleware := authmw.NewAuth(cfg.Auth, tokens, userService, false, log)

	handlers := &handler.Handlers{
		Common:   commonhandler.New(log),
		Accounts: accountshandler.New(userService, authMiddleware, log),
		Groups:   groupshandler.New(groupsService, log),
		Posts:    postshandler.New(postsService, log),
		Profiles: profileshandler.New(profilesService, testMaxUploadBytes, log),
		Images:   imageshandler.New(imagesService, testMaxUploadBytes, log),
	}
	pages := ui.NewHandler(ui.Services{
		Accounts: userService,
		Groups:   groupsService,
		Posts:    postsService,
		Profiles: profilesService,
		Images:   imagesService,
	}, authMiddleware, false, testMaxUploadBytes, log)

	limiter := authmw.NewRateLimiter(1000, 1000)
	server := httptest.NewServer(NewRouter(cfg, handlers, pages, authMiddleware, limiter, log))
	t.Cleanup(server.Close)

	return &testEnv{server: server, db: dbConn}
}

// client returns a browser-like client that keeps cookies and does not follow
// redirects.
func (e *testEnv) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (e *testEnv) apiRequest(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) upload(t *testing.T, path, token, field string, data []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "upload.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// signup registers username through the API and returns its bearer token.
func (e *testEnv) signup(t *testing.T, username string) string {
	t.Helper()

	resp := e.apiRequest(t, http.MethodPost, "/api/accounts/signup", "", map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "correct horse",
		"password_confirm": "correct horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var payload struct {
		Token string `json:"token"`
	}
	decode(t, resp, &payload)
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

// browserLogin signs username in through the login form.
func (e *testEnv) browserLogin(t *testing.T, client *http.Client, username string) {
	t.Helper()

	resp := e.browserPost(t, client, "/accounts/login", url.Values{
		"username": {username},
		"password": {"correct horse"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

// browserPost submits a form with the CSRF token the server handed to client.
func (e *testEnv) browserPost(t *testing.T, client *http.Client, path string, form url.Values) *http.Response {
	t.Helper()

	token := e.csrfToken(t, client)
	form.Set("csrf_token", token)

	resp, err := client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) browserGet(t *testing.T, client *http.Client, path string) (*http.Response, string) {
	t.Helper()

	resp, err := client.Get(e.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) csrfToken(t *testing.T, client *http.Client) string {
	t.Helper()

	base, err := url.Parse(e.server.URL)
	require.NoError(t, err)

	if token := cookieValue(client, base, "ui_csrf"); token != "" {
		return token
	}
	resp, _ := e.browserGet(t, client, "/accounts/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token := cookieValue(client, base, "ui_csrf")
	require.NotEmpty(t, token)
	return token
}

func cookieValue(client *http.Client, base *url.URL, name string) string {
	for _, cookie := range client.Jar.Cookies(base) {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func (e *testEnv) userID(t *testing.T, username string) string {
	t.Helper()
	var user userdomain.User
	require.NoError(t, e.db.Where("username = ?", username).First(&user).Error)
	return user.ID
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, resp, &payload)
	return payload.Error.Code
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func contains(body string, fragments ...string) bool {
	for _, fragment := range fragments {
		if !strings.Contains(body, fragment) {
			return false
		}
	}
	return true
}
