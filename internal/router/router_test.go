package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-social-accounts/config"
	"github.com/oksasatya/go-ddd-social-accounts/internal/container"
	"github.com/oksasatya/go-ddd-social-accounts/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-social-accounts/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/helpers"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/validation"
)

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type userData struct {
	User struct {
		Username string  `json:"username"`
		Email    string  `json:"email"`
		Token    string  `json:"token"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	} `json:"user"`
}

type profileData struct {
	Profile struct {
		Username  string `json:"username"`
		Image     string `json:"image"`
		Following bool   `json:"following"`
	} `json:"profile"`
}

func newServer(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	container.Reset()
	t.Cleanup(container.Reset)
	container.SetConfig(cfg)
	container.SetLogger(helpers.NewDiscardLogger())
	container.SetJWT(helpers.NewJWTManager("router-test"))
	container.SetUserRepository(memory.NewUserRepository())

	engine := gin.New()
	_ = engine.SetTrustedProxies(nil)
	reg := NewRegistry(engine)
	reg.Use(middleware.RequestIDMiddleware(), middleware.RealIP(cfg.TrustProxyHeaders))
	InitModules(reg)
	reg.RegisterAll()
	return engine
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:          "Conduit",
		RateLimitWindow:  time.Minute,
		RateLimitAuthMax: 100,
		RateLimitMax:     100,
	}
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func register(t *testing.T, h http.Handler, username, email, password string) userData {
	t.Helper()
	code, env := call(t, h, http.MethodPost, "/api/users", "", gin.H{"user": gin.H{"username": username, "email": email, "password": password}})
	require.Equal(t, http.StatusCreated, code, string(env.Error))
	var d userData
	require.NoError(t, json.Unmarshal(env.Data, &d))
	return d
}

func TestAccountsFlow(t *testing.T) {
	srv := newServer(t, testConfig())

	alice := register(t, srv, "alice", "alice@example.com", "secret")
	assert.Equal(t, "alice", alice.User.Username)
	assert.NotEmpty(t, alice.User.Token)
	assert.Nil(t, alice.User.Bio)
	register(t, srv, "bob", "bob@example.com", "secret")

	code, env := call(t, srv, http.MethodPost, "/api/users/login", "", gin.H{"user": gin.H{"email": "alice@example.com", "password": "secret"}})
	require.Equal(t, http.StatusOK, code)
	var login userData
	require.NoError(t, json.Unmarshal(env.Data, &login))
	token := login.User.Token

	code, env = call(t, srv, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, code)
	var current userData
	require.NoError(t, json.Unmarshal(env.Data, &current))
	assert.Equal(t, "alice@example.com", current.User.Email)

	code, env = call(t, srv, http.MethodPut, "/api/user", token, gin.H{"user": gin.H{"bio": "hi"}})
	require.Equal(t, http.StatusOK, code)
	var updated userData
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.NotNil(t, updated.User.Bio)
	assert.Equal(t, "hi", *updated.User.Bio)

	code, env = call(t, srv, http.MethodPost, "/api/profiles/bob/follow", token, nil)
	require.Equal(t, http.StatusOK, code)
	var p profileData
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.True(t, p.Profile.Following)

	_, env = call(t, srv, http.MethodGet, "/api/profiles/bob", token, nil)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.True(t, p.Profile.Following)

	_, env = call(t, srv, http.MethodGet, "/api/profiles/bob", "", nil)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.False(t, p.Profile.Following)

	code, env = call(t, srv, http.MethodDelete, "/api/profiles/bob/follow", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.False(t, p.Profile.Following)
}

func TestErrorStatuses(t *testing.T) {
	srv := newServer(t, testConfig())
	alice := register(t, srv, "alice", "alice@example.com", "secret")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		code   int
	}{
		{"missing fields", http.MethodPost, "/api/users", "", gin.H{"user": gin.H{"username": "x"}}, http.StatusUnprocessableEntity},
		{"bad email", http.MethodPost, "/api/users", "", gin.H{"user": gin.H{"username": "x", "email": "nope", "password": "p"}}, http.StatusUnprocessableEntity},
		{"duplicate", http.MethodPost, "/api/users", "", gin.H{"user": gin.H{"username": "alice", "email": "a2@example.com", "password": "p"}}, http.StatusConflict},
		{"wrong password", http.MethodPost, "/api/users/login", "", gin.H{"user": gin.H{"email": "alice@example.com", "password": "nope"}}, http.StatusUnauthorized},
		{"no token", http.MethodGet, "/api/user", "", nil, http.StatusUnauthorized},
		{"unknown profile", http.MethodGet, "/api/profiles/ghost", "", nil, http.StatusNotFound},
		{"follow unknown", http.MethodPost, "/api/profiles/ghost/follow", alice.User.Token, nil, http.StatusNotFound},
		{"search disabled", http.MethodGet, "/api/users/search?q=bob", alice.User.Token, nil, http.StatusServiceUnavailable},
		{"search size", http.MethodGet, "/api/users/search?q=bob&size=500", alice.User.Token, nil, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := call(t, srv, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.code, code)
			assert.False(t, env.Success)
		})
	}
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitAuthMax = 2
	srv := newServer(t, cfg)

	body := gin.H{"user": gin.H{"email": "ghost@example.com", "password": "x"}}
	for i := 0; i < 2; i++ {
		code, _ := call(t, srv, http.MethodPost, "/api/users/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, code)
	}
	code, _ := call(t, srv, http.MethodPost, "/api/users/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, code)

	// registration has its own bucket
	register(t, srv, "alice", "alice@example.com", "secret")
}

func TestHealthAndDebug(t *testing.T) {
	cfg := testConfig()
	cfg.DebugMetricsEnabled = true
	srv := newServer(t, cfg)

	code, env := call(t, srv, http.MethodGet, "/api/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"database":"disabled","redis":"disabled"}`, string(env.Data))

	// httptest requests come from 192.0.2.1, which is not private
	req := httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accounts"`)
}
