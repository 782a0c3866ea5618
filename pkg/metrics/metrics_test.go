package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/api/v1/records/", 200, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/records/", 200, 30*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/records/", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestObservePage(t *testing.T) {
	m := New()

	m.ObservePage("records", 50, "next", "last")
	m.ObservePage("records", 3, "prev", "first")
	m.ObservePage("records", 0)
	m.PageFailed("records", "INVALID_LIMIT")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.pageLinks.WithLabelValues("records", "next")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pageLinks.WithLabelValues("records", "prev")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pageFailures.WithLabelValues("records", "INVALID_LIMIT")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.pageRows, "demonlist_pagination_page_rows"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.ObserveRequest("GET", "/", 200, time.Second)
	m.ObservePage("players", 1, "next")
	m.PageFailed("players", "DATABASE_ERROR")
	m.SetBreakerState("redis", 1)
	m.RateLimited("global")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.SetBreakerState("redis", 1)
	m.RateLimited("login")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, `demonlist_circuit_breaker_state{name="redis"} 1`), text)
	assert.True(t, strings.Contains(text, `demonlist_rate_limited_total{scope="login"} 1`), text)
	assert.True(t, strings.Contains(text, "go_goroutines"), "expected runtime collector output")
}
