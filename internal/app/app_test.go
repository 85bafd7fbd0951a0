package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"accounts_backend/internal/auth"
	"accounts_backend/internal/config"
	"accounts_backend/internal/email"
	"accounts_backend/internal/logger"
	"accounts_backend/internal/models"
	"accounts_backend/internal/repositories"
	"accounts_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testBaseURL       = "http://accounts.test"
	testAdminEmail    = "root@example.com"
	testAdminPassword = "Admin*Pass1"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	os.Exit(m.Run())
}

type testServer struct {
	server *httptest.Server
	repo   *repositories.MemoryUserRepository
	mail   *email.RecordingProvider
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Server.BaseURL = testBaseURL
	cfg.JWT.Secret = "test-secret-key"
	cfg.JWT.TTL = 30
	cfg.Auth.MaxLoginAttempts = 3
	cfg.FirstAdmin.Email = testAdminEmail
	cfg.FirstAdmin.Password = testAdminPassword

	repo := repositories.NewMemoryUserRepository()
	mail := &email.RecordingProvider{}
	deps := Dependencies{
		UserRepo:      repo,
		EmailProvider: mail,
		Hasher:        auth.NewBcryptHasher(bcrypt.MinCost),
	}
	require.NoError(t, seedFirstAdmin(context.Background(), cfg, deps))

	router, err := SetupRouter(cfg, deps)
	require.NoError(t, err)

	ts := &testServer{server: httptest.NewServer(router), repo: repo, mail: mail, cfg: cfg}
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) send(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, raw
}

func (ts *testServer) login(t *testing.T, emailAddr, password string) string {
	t.Helper()
	res, raw := ts.send(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: emailAddr, Password: password})
	require.Equal(t, http.StatusOK, res.StatusCode, string(raw))

	var tok dto.TokenResponse
	require.NoError(t, json.Unmarshal(raw, &tok))
	assert.Equal(t, "bearer", tok.TokenType)
	return tok.AccessToken
}

// registerVerified регистрирует пользователя, переходит по ссылке из письма и возвращает его
func (ts *testServer) registerVerified(t *testing.T, emailAddr, password string) dto.UserResponse {
	t.Helper()
	res, raw := ts.send(t, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{Email: emailAddr, Password: password})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(raw))

	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &user))

	sent, ok := ts.mail.LastVerification(emailAddr)
	require.True(t, ok)
	res, raw = ts.send(t, http.MethodGet, strings.TrimPrefix(sent.Link, testBaseURL), "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(raw))
	return user
}

type errorBody struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, raw []byte) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	res, raw := ts.send(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	res, raw := ts.send(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "John.Doe@Example.com",
		"password": "Secure*1234",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(raw))

	var created dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "john.doe@example.com", created.Email)
	assert.NotEmpty(t, created.Nickname)
	assert.Equal(t, models.UserRoleAuthenticated, created.Role)
	assert.False(t, created.IsVerified)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "verification_token")

	// до подтверждения вход запрещен
	res, raw = ts.send(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "john.doe@example.com", Password: "Secure*1234"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "USER_NOT_VERIFIED", decodeError(t, raw).Error.Code)

	sent, ok := ts.mail.LastVerification("john.doe@example.com")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(sent.Link, testBaseURL+"/api/v1/auth/verify-email/"+created.ID+"/"))

	res, raw = ts.send(t, http.MethodGet, strings.TrimPrefix(sent.Link, testBaseURL), "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(raw))
	assert.Contains(t, string(raw), "Email verified successfully")

	token := ts.login(t, "john.doe@example.com", "Secure*1234")
	codec, err := auth.NewTokenCodec([]byte(ts.cfg.JWT.Secret), 0)
	require.NoError(t, err)
	result := codec.Verify(token)
	require.Equal(t, auth.TokenValid, result.Status)
	assert.Equal(t, created.ID, result.Subject())
	assert.Equal(t, "AUTHENTICATED", result.Role())

	res, raw = ts.send(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(raw))
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &me))
	assert.Equal(t, created.ID, me.ID)
	assert.True(t, me.IsVerified)
	assert.NotNil(t, me.LastLoginAt)
}

func TestVerifyEmail_WrongToken(t *testing.T) {
	ts := newTestServer(t)
	res, raw := ts.send(t, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{Email: "jane@example.com", Password: "Secure*1234"})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(raw))
	var created dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	res, raw = ts.send(t, http.MethodGet, "/api/v1/auth/verify-email/"+created.ID+"/nottherighttoken", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "INVALID_VERIFICATION_TOKEN", decodeError(t, raw).Error.Code)
}

func TestLogin_FormBody(t *testing.T) {
	ts := newTestServer(t)

	form := url.Values{"username": {testAdminEmail}, "password": {testAdminPassword}}
	res, err := ts.server.Client().PostForm(ts.server.URL+"/api/v1/auth/login", form)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	var tok dto.TokenResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&tok))
	assert.NotEmpty(t, tok.AccessToken)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	ts := newTestServer(t)

	res, raw := ts.send(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: testAdminEmail, Password: "Wrong*Pass1"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	wrongPassword := decodeError(t, raw)
	assert.Equal(t, "Incorrect email or password.", wrongPassword.Error.Message)

	res, raw = ts.send(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "nobody@example.com", Password: "Wrong*Pass1"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, wrongPassword.Error, decodeError(t, raw).Error)
}

func TestLogin_LocksAfterMaxAttempts(t *testing.T) {
	ts := newTestServer(t)
	ts.registerVerified(t, "lock@example.com", "Secure*1234")

	for i := 0; i < ts.cfg.Auth.MaxLoginAttempts; i++ {
		res, _ := ts.send(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "lock@example.com", Password: "Wrong*Pass1"})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}

	// даже верный пароль больше не помогает
	res, raw := ts.send(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "lock@example.com", Password: "Secure*1234"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "USER_LOCKED", decodeError(t, raw).Error.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.registerVerified(t, "dup@example.com", "Secure*1234")

	res, raw := ts.send(t, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{Email: "DUP@example.com", Password: "Secure*1234"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Email already exists", decodeError(t, raw).Error.Message)
}

func TestRegister_ValidationErrors(t *testing.T) {
	ts := newTestServer(t)

	res, raw := ts.send(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	body := decodeError(t, raw)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Contains(t, string(body.Error.Details), "email")
	assert.Contains(t, string(body.Error.Details), "Password must be at least 8 characters long")
	assert.Empty(t, ts.mail.Verifications)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts := newTestServer(t)

	res, raw := ts.send(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, raw).Error.Code)

	res, raw = ts.send(t, http.MethodGet, "/api/v1/users", "garbage.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, raw).Error.Code)
}

func TestUsers_AuthenticatedIsForbidden(t *testing.T) {
	ts := newTestServer(t)
	user := ts.registerVerified(t, "plain@example.com", "Secure*1234")
	token := ts.login(t, "plain@example.com", "Secure*1234")

	for _, tc := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/v1/users", nil},
		{http.MethodGet, "/api/v1/users/" + user.ID, nil},
		{http.MethodPut, "/api/v1/users/" + user.ID, map[string]any{"bio": "hi"}},
		{http.MethodDelete, "/api/v1/users/" + user.ID, nil},
		{http.MethodPost, "/api/v1/users", dto.CreateUserRequest{Email: "x@example.com", Password: "Secure*1234"}},
	} {
		res, raw := ts.send(t, tc.method, tc.path, token, tc.body)
		assert.Equal(t, http.StatusForbidden, res.StatusCode, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Forbidden", decodeError(t, raw).Error.Message)
	}
}

func TestUsers_AdminCRUD(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, testAdminEmail, testAdminPassword)

	nickname := "managed_user"
	res, raw := ts.send(t, http.MethodPost, "/api/v1/users", adminToken, dto.CreateUserRequest{
		Email:    "managed@example.com",
		Nickname: &nickname,
		Password: "Secure*1234",
		Role:     models.UserRoleManager,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(raw))
	var created dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "managed_user", created.Nickname)
	assert.Equal(t, models.UserRoleManager, created.Role)

	res, raw = ts.send(t, http.MethodGet, "/api/v1/users/"+created.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(raw))

	res, raw = ts.send(t, http.MethodPut, "/api/v1/users/"+created.ID, adminToken, map[string]any{
		"bio":                "Updated bio",
		"github_profile_url": "https://github.com/managed",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, string(raw))
	var updated dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "Updated bio", updated.Bio)
	require.NotNil(t, updated.GithubProfileURL)
	assert.Equal(t, "https://github.com/managed", *updated.GithubProfileURL)

	res, raw = ts.send(t, http.MethodPut, "/api/v1/users/"+created.ID, adminToken, map[string]any{
		"linkedin_profile_url": "ftp://linkedin.com/in/x",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, string(decodeError(t, raw).Error.Details), "Invalid URL format")

	res, _ = ts.send(t, http.MethodDelete, "/api/v1/users/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, raw = ts.send(t, http.MethodGet, "/api/v1/users/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "User not found", decodeError(t, raw).Error.Message)

	res, _ = ts.send(t, http.MethodDelete, "/api/v1/users/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestUsers_BadUserIDIsValidationError(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, testAdminEmail, testAdminPassword)

	res, raw := ts.send(t, http.MethodGet, "/api/v1/users/not-a-uuid", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, raw).Error.Code)
}

func TestUsers_ListAsManager(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.login(t, testAdminEmail, testAdminPassword)

	res, raw := ts.send(t, http.MethodPost, "/api/v1/users", adminToken, dto.CreateUserRequest{
		Email:    "manager@example.com",
		Password: "Secure*1234",
		Role:     models.UserRoleManager,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, string(raw))
	var manager dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &manager))

	stored, err := ts.repo.FindByID(context.Background(), manager.ID)
	require.NoError(t, err)
	if !stored.IsVerified {
		stored.IsVerified = true
		require.NoError(t, ts.repo.Update(context.Background(), stored))
	}
	managerToken := ts.login(t, "manager@example.com", "Secure*1234")

	ts.registerVerified(t, "first@example.com", "Secure*1234")
	ts.registerVerified(t, "second@example.com", "Secure*1234")

	res, raw = ts.send(t, http.MethodGet, "/api/v1/users?page=1&page_size=2", managerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(raw))
	var page dto.UserListResponse
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, int64(4), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, testAdminEmail, page.Items[0].Email)

	res, raw = ts.send(t, http.MethodGet, "/api/v1/users?page=2&page_size=2", managerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "second@example.com", page.Items[1].Email)
}

func TestSeedFirstAdmin_Idempotent(t *testing.T) {
	ts := newTestServer(t)
	deps := Dependencies{
		UserRepo:      ts.repo,
		EmailProvider: ts.mail,
		Hasher:        auth.NewBcryptHasher(bcrypt.MinCost),
	}

	require.NoError(t, seedFirstAdmin(context.Background(), ts.cfg, deps))

	total, err := ts.repo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	admin, err := ts.repo.FindByEmail(context.Background(), testAdminEmail)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, admin.Role)
	assert.True(t, admin.IsVerified)
	assert.Equal(t, "admin", admin.Nickname)
}

func TestSeedFirstAdmin_SkipsWithoutCredentials(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	cfg := &config.Config{}
	deps := Dependencies{UserRepo: repo, Hasher: auth.NewBcryptHasher(bcrypt.MinCost)}

	require.NoError(t, seedFirstAdmin(context.Background(), cfg, deps))
	total, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}
