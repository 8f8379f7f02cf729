package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devconnect/internal/auth"
	"devconnect/internal/domain"
	"devconnect/internal/github"
	"devconnect/internal/repository/sqlite"
	"devconnect/internal/service"
	"devconnect/internal/storage"
)

type stubRepos struct {
	repos []github.Repo
	err   error
}

func (s *stubRepos) Repos(_ context.Context, _ string) ([]github.Repo, error) {
	return s.repos, s.err
}

type testAPI struct {
	router *gin.Engine
	github *stubRepos
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	profiles := sqlite.NewProfileRepository(db)
	posts := sqlite.NewPostRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, profiles.Init(ctx))
	require.NoError(t, posts.Init(ctx))

	tokens, err := auth.NewTokenIssuer([]byte("api-secret"), auth.DefaultTokenTTL)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	stub := &stubRepos{}
	handler := NewHandler(Options{
		Users: service.NewUserService(users, sqlite.NewAccountRepository(db), tokens, service.UserServiceConfig{
			BcryptCost: bcrypt.MinCost,
			Logger:     logger,
		}),
		Profiles: service.NewProfileService(profiles),
		Posts:    service.NewPostService(posts, users),
		Tokens:   tokens,
		Github:   stub,
		Logger:   logger,
	})

	router := gin.New()
	handler.RegisterRoutes(router)
	return &testAPI{router: router, github: stub}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) register(t *testing.T, name, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/users", "", gin.H{"name": name, "email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decode(t, rec, &body)
	return body.Message
}

func TestAuthGate(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/auth", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token, authorization denied", message(t, rec))

	rec = api.do(t, http.MethodGet, "/posts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token is not valid", message(t, rec))

	token := api.register(t, "Ann", "Ann@Test.com")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var user map[string]any
	decode(t, rec, &user)
	assert.Equal(t, "ann@test.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "PasswordHash")
}

func TestRegisterValidationAndConflicts(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/users", "", gin.H{"name": "", "email": "nope", "password": "123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var verr struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	decode(t, rec, &verr)
	fields := make([]string, len(verr.Errors))
	for i, e := range verr.Errors {
		fields[i] = e.Field
	}
	assert.ElementsMatch(t, []string{"name", "email", "password"}, fields)

	api.register(t, "Ann", "ann@test.com")
	rec = api.do(t, http.MethodPost, "/users", "", gin.H{"name": "Ann", "email": "ann@test.com", "password": "secret1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exist")

	for _, creds := range []gin.H{
		{"email": "ann@test.com", "password": "wrong-pass"},
		{"email": "nobody@test.com", "password": "secret1"},
	} {
		rec = api.do(t, http.MethodPost, "/auth/signin", "", creds)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"errors":[{"message":"Invalid Credentials"}]}`, rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/auth/signin", "", gin.H{"email": "ANN@test.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMalformedBody(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
}

func TestPostLifecycle(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "U", "u@test.com")

	rec := api.do(t, http.MethodPost, "/posts", token, gin.H{"text": "hello"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var post PostResponse
	decode(t, rec, &post)
	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, "U", post.Name)
	assert.Contains(t, rec.Body.String(), `"likes":[]`)

	rec = api.do(t, http.MethodPut, "/posts/like/"+post.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var likes []map[string]string
	decode(t, rec, &likes)
	require.Len(t, likes, 1)
	assert.Equal(t, post.User, likes[0]["user"])

	rec = api.do(t, http.MethodPut, "/posts/like/"+post.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Post already liked", message(t, rec))

	rec = api.do(t, http.MethodDelete, "/posts/"+post.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/posts/"+post.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostOwnershipAndComments(t *testing.T) {
	api := newTestAPI(t)
	author := api.register(t, "Author", "a@test.com")
	other := api.register(t, "Other", "o@test.com")

	rec := api.do(t, http.MethodPost, "/posts", author, gin.H{"text": "mine"})
	require.Equal(t, http.StatusOK, rec.Code)
	var post PostResponse
	decode(t, rec, &post)

	rec = api.do(t, http.MethodDelete, "/posts/"+post.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User not authorized", message(t, rec))

	rec = api.do(t, http.MethodPut, "/posts/unlike/"+post.ID, other, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/posts/comment/"+post.ID, other, gin.H{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/posts/comment/"+post.ID, other, gin.H{"text": "nice"})
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []map[string]any
	decode(t, rec, &comments)
	require.Len(t, comments, 1)
	commentID := comments[0]["id"].(string)
	assert.Equal(t, "Other", comments[0]["name"])

	rec = api.do(t, http.MethodDelete, "/posts/comment/"+post.ID+"/"+commentID, author, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodDelete, "/posts/comment/"+post.ID+"/missing", other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Comment does not exist", message(t, rec))

	rec = api.do(t, http.MethodDelete, "/posts/comment/"+post.ID+"/"+commentID, other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/posts/unknown", author, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "Dev", "dev@test.com")

	rec := api.do(t, http.MethodGet, "/profile/me", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPost, "/profile", token, gin.H{"status": "Developer"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"skills"`)

	rec = api.do(t, http.MethodPost, "/profile", token, gin.H{
		"status":         "Developer",
		"skills":         "go, sql ,",
		"githubusername": "octocat",
		"twitter":        "https://twitter.com/dev",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile ProfileResponse
	decode(t, rec, &profile)
	assert.Equal(t, []string{"go", "sql"}, profile.Skills)
	assert.Equal(t, "https://twitter.com/dev", profile.Social["twitter"])
	require.NotNil(t, profile.User)
	assert.Equal(t, "Dev", profile.User.Name)

	rec = api.do(t, http.MethodPut, "/profile/experience", token, gin.H{
		"title": "Engineer", "company": "Acme", "from": "2020-01-01", "current": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decode(t, rec, &profile)
	require.Len(t, profile.Experience, 1)
	assert.Nil(t, profile.Experience[0].To)

	rec = api.do(t, http.MethodPut, "/profile/education", token, gin.H{"school": "MIT"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodDelete, "/profile/experience/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodDelete, "/profile/experience/"+profile.Experience[0].ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &profile)
	assert.Empty(t, profile.Experience)

	rec = api.do(t, http.MethodGet, "/profile/user/"+profile.User.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/profile", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []ProfileResponse
	decode(t, rec, &all)
	assert.Len(t, all, 1)
}

func TestDeleteAccount(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "Gone", "gone@test.com")

	rec := api.do(t, http.MethodPost, "/posts", token, gin.H{"text": "bye"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, "/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted", message(t, rec))

	rec = api.do(t, http.MethodGet, "/posts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/auth", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the token outlives the account
	rec = api.do(t, http.MethodPost, "/profile", token, gin.H{"status": "Developer", "skills": "go"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", message(t, rec))

	rec = api.do(t, http.MethodPost, "/posts", token, gin.H{"text": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlankProfileStatusRejected(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "Dev", "dev@test.com")

	rec := api.do(t, http.MethodPost, "/profile", token, gin.H{"status": "   ", "skills": "go"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"status"`)
}

func TestRespondErrorStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewHandler(Options{Logger: logger})

	cases := []struct {
		err     error
		status  int
		message string
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized, "No token, authorization denied"},
		{fmt.Errorf("%w: expired", domain.ErrInvalidToken), http.StatusUnauthorized, "Token is not valid"},
		{fmt.Errorf("remove: %w", domain.ErrEntryNotFound), http.StatusNotFound, "Entry not found"},
		{domain.ErrNotLiked, http.StatusBadRequest, "Post has not yet been liked"},
		{storage.ErrNotConfigured, http.StatusServiceUnavailable, "avatar storage not configured"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "server error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		h.respondError(c, tc.err)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Equal(t, tc.message, message(t, rec))
	}
}

func TestGithubRepos(t *testing.T) {
	api := newTestAPI(t)

	api.github.repos = []github.Repo{{Name: "hello-world"}}
	rec := api.do(t, http.MethodGet, "/profile/github/octocat", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello-world")

	api.github.err = github.ErrNotFound
	rec = api.do(t, http.MethodGet, "/profile/github/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No Github profile found", message(t, rec))

	api.github.err = github.ErrUnavailable
	rec = api.do(t, http.MethodGet, "/profile/github/octocat", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAvatarUploadWithoutStorage(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "Pic", "pic@test.com")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/avatar", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(tokenHeader, token)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/users/avatar", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, token)
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/posts", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "x-auth-token")
}
