package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/demonlist/internal/constants"
	"github.com/Payphone-Digital/demonlist/internal/dto"
	"github.com/Payphone-Digital/demonlist/internal/model"
	"github.com/Payphone-Digital/demonlist/internal/repository"
	"github.com/Payphone-Digital/demonlist/internal/service"
	"github.com/Payphone-Digital/demonlist/pkg/circuit"
	"github.com/Payphone-Digital/demonlist/pkg/database/dbtest"
	"github.com/Payphone-Digital/demonlist/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// failingRedis is an enabled Redis whose every call fails
type failingRedis struct{ calls int }

func (f *failingRedis) IsEnabled() bool                { return true }
func (f *failingRedis) Ping(ctx context.Context) error { return errors.New("down") }
func (f *failingRedis) Close() error                   { return nil }
func (f *failingRedis) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	f.calls++
	return 0, 0, errors.New("connection refused")
}

func TestRateLimit_LocalWindow(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(2, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := perform(r, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected request %d to pass, got %d", i+1, w.Code)
		}
	}

	w := perform(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderRetryAfter))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "RATE_LIMITED", decode(t, w)["code"])
}

func TestLocalWindow_Hit(t *testing.T) {
	start := time.Unix(1000, 0)
	tests := []struct {
		name      string
		hits      []time.Duration
		wantCount int64
		wantReset time.Duration
	}{
		{"first hit", []time.Duration{0}, 1, time.Second},
		{"inside window", []time.Duration{0, 500 * time.Millisecond}, 2, 500 * time.Millisecond},
		{"just before expiry", []time.Duration{0, 999 * time.Millisecond}, 2, time.Millisecond},
		{"exactly one window old", []time.Duration{0, time.Second}, 1, time.Second},
		{"oldest expired", []time.Duration{0, 500 * time.Millisecond, 1200 * time.Millisecond}, 2, 300 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newLocalWindow(time.Second)

			var count int64
			var reset time.Duration
			for _, at := range tt.hits {
				count, reset = w.hit("a", start.Add(at))
			}

			if count != tt.wantCount {
				t.Errorf("Expected count %d, got %d", tt.wantCount, count)
			}
			if reset != tt.wantReset {
				t.Errorf("Expected reset %s, got %s", tt.wantReset, reset)
			}
		})
	}
}

func TestLocalWindow_KeysIndependent(t *testing.T) {
	w := newLocalWindow(time.Second)
	now := time.Unix(1000, 0)

	w.hit("a", now)
	w.hit("a", now)
	count, _ := w.hit("b", now)
	assert.Equal(t, int64(1), count)
}

func TestRateLimit_FallsBackWhenRedisFails(t *testing.T) {
	rdb := &failingRedis{}
	breaker := circuit.NewBreaker("redis", circuit.Config{Threshold: 2, Timeout: time.Hour}, nil)
	m := metrics.New()
	limiter := NewRateLimiter(RateLimitConfig{
		Scope:     "login",
		KeyPrefix: constants.KeyRateLimitLogin,
		Limit:     3,
		Window:    time.Minute,
	}, rdb, breaker, m)

	r := gin.New()
	r.POST("/login", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := perform(r, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
	w := perform(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// the breaker opened after two failures, later calls skip Redis
	assert.Equal(t, 2, rdb.calls)
	assert.True(t, breaker.IsOpen())
}

func TestRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(RequestContext())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Get(constants.GinKeyRequestID)
		c.String(http.StatusOK, id.(string))
	})

	w := perform(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(constants.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderXRequestID, "abc-123")
	w = perform(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Link")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header      string
		wantToken   string
		wantPresent bool
	}{
		{"", "", false},
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", true},
		{"Bearer ", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			c.Request.Header.Set("Authorization", tt.header)
		}

		token, present := bearerToken(c)
		if token != tt.wantToken || present != tt.wantPresent {
			t.Errorf("Expected (%q, %v) for %q, got (%q, %v)", tt.wantToken, tt.wantPresent, tt.header, token, present)
		}
	}
}

func newAuthRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()

	db := dbtest.OpenMigrated(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	member := &model.Member{Name: "helper", PasswordHash: string(hash), Permissions: model.PermListHelper, TokenVersion: 1}
	require.NoError(t, db.Create(member).Error)

	jwtService := service.NewJWTService("test-secret", "demonlist", time.Hour)
	auth := NewJWTMiddleware(service.NewAuthService(repository.NewMemberRepository(db), jwtService))
	token, err := jwtService.GenerateToken(member)
	require.NoError(t, err)

	viewer := func(c *gin.Context) {
		v := GetViewer(c)
		c.JSON(http.StatusOK, gin.H{"member_id": v.MemberID, "extended": v.ExtendedAccess()})
	}

	r := gin.New()
	r.GET("/required", auth.RequireAuth(), viewer)
	r.GET("/optional", auth.OptionalAuth(), viewer)
	return r, token
}

func TestJWTMiddleware(t *testing.T) {
	r, token := newAuthRouter(t)

	tests := []struct {
		name         string
		path         string
		header       string
		wantStatus   int
		wantExtended bool
	}{
		{"required without token", "/required", "", http.StatusUnauthorized, false},
		{"required with token", "/required", "Bearer " + token, http.StatusOK, true},
		{"required with garbage", "/required", "Bearer nope", http.StatusUnauthorized, false},
		{"optional anonymous", "/optional", "", http.StatusOK, false},
		{"optional with token", "/optional", "Bearer " + token, http.StatusOK, true},
		{"optional with garbage", "/optional", "Bearer nope", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := perform(r, req)
			require.Equal(t, tt.wantStatus, w.Code)
			if w.Code == http.StatusOK {
				assert.Equal(t, tt.wantExtended, decode(t, w)["extended"])
			}
		})
	}
}

func TestValidateRequestBody(t *testing.T) {
	vm, err := NewValidationMiddleware()
	require.NoError(t, err)

	r := gin.New()
	r.POST("/login", vm.ValidateRequestBody(func() interface{} { return &dto.LoginRequest{} }), func(c *gin.Context) {
		req := c.MustGet(constants.GinKeyRequestBody).(*dto.LoginRequest)
		c.String(http.StatusOK, req.Name)
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"name":"admin","password":"Admin@123"}`, http.StatusOK},
		{"short password", `{"name":"admin","password":"short"}`, http.StatusBadRequest},
		{"missing name", `{"password":"Admin@123"}`, http.StatusBadRequest},
		{"not json", `name=admin`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := perform(r, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if w.Code == http.StatusBadRequest {
				assert.Equal(t, "INVALID_INPUT", decode(t, w)["code"])
			}
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
