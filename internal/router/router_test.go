package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/demonlist/config"
	"github.com/Payphone-Digital/demonlist/internal/handler"
	"github.com/Payphone-Digital/demonlist/internal/middleware"
	"github.com/Payphone-Digital/demonlist/internal/repository"
	"github.com/Payphone-Digital/demonlist/internal/service"
	"github.com/Payphone-Digital/demonlist/pkg/database"
	"github.com/Payphone-Digital/demonlist/pkg/database/dbtest"
	"github.com/Payphone-Digital/demonlist/pkg/metrics"
	"github.com/Payphone-Digital/demonlist/pkg/pagination"
	"github.com/Payphone-Digital/demonlist/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	db := dbtest.OpenMigrated(t)
	require.NoError(t, database.Seed(db))

	cfg := &config.Config{
		RateLimit: config.RateLimitConfig{Request: 100, Duration: 60},
	}
	m := metrics.New()
	limits := pagination.DefaultLimits()

	jwtService := service.NewJWTService("test-secret", "demonlist", time.Hour)
	authService := service.NewAuthService(repository.NewMemberRepository(db), jwtService)
	links, err := handler.NewLinks("")
	require.NoError(t, err)
	validMw, err := middleware.NewValidationMiddleware()
	require.NoError(t, err)

	loginLimit := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Scope: "login", Limit: 3, Window: time.Minute,
	}, redis.Disabled(), nil, m)

	return NewRouter(
		handler.NewRecordHandler(service.NewRecordService(repository.NewRecordRepository(db), limits, m), links),
		handler.NewPlayerHandler(service.NewPlayerService(repository.NewPlayerRepository(db), limits, m), links),
		handler.NewAuthHandler(authService),
		handler.NewHealthHandler(db, redis.Disabled(), nil),
		validMw,
		middleware.NewJWTMiddleware(authService),
		nil,
		loginLimit,
		m,
		cfg,
	).SetupRoutes()
}

func do(r http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_LoginMeLogout(t *testing.T) {
	r := newTestEngine(t)

	w := do(r, http.MethodPost, "/api/v1/auth/login", "", `{"name":"admin","password":"Admin@123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	w = do(r, http.MethodGet, "/api/v1/auth/me", login.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"admin"`)

	w = do(r, http.MethodPost, "/api/v1/auth/logout", login.Token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/auth/me", login.Token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_LoginRateLimited(t *testing.T) {
	r := newTestEngine(t)

	for i := 0; i < 3; i++ {
		w := do(r, http.MethodPost, "/api/v1/auth/login", "", `{"name":"admin","password":"wrong-password"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := do(r, http.MethodPost, "/api/v1/auth/login", "", `{"name":"admin","password":"Admin@123"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newTestEngine(t)

	tests := []struct {
		method     string
		target     string
		wantStatus int
	}{
		{http.MethodGet, "/api/health/live", http.StatusOK},
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/v1/records/", http.StatusOK},
		{http.MethodGet, "/api/v1/players/", http.StatusOK},
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{http.MethodGet, "/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		w := do(r, tt.method, tt.target, "", "")
		if w.Code != tt.wantStatus {
			t.Errorf("Expected %d for %s %s, got %d", tt.wantStatus, tt.method, tt.target, w.Code)
		}
	}

	w := do(r, http.MethodGet, "/metrics", "", "")
	assert.Contains(t, w.Body.String(), "demonlist_http_requests_total")
}
