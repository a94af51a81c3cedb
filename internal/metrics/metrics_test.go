package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveEvent("scroll")
	m.ObserveEvent("scroll")
	m.ObserveEvent("pointer.move")
	m.ObserveContact("sent")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.uiEvents.WithLabelValues("scroll")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uiEvents.WithLabelValues("pointer.move")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.contactSubmissions.WithLabelValues("sent")))
}

func TestMountedGauge(t *testing.T) {
	m := New()
	m.ViewMounted()
	m.ViewMounted()
	m.ViewUnmounted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mountedViews))
}

func TestManagersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveEvent("scroll")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.uiEvents.WithLabelValues("scroll")))
	assert.NotPanics(t, func() { New(WithRuntimeCollectors()) })
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/hello/:name", func(c *gin.Context) { c.String(http.StatusOK, "hi") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello/ada", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/hello/:name", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.True(t, strings.Contains(string(body), "portfolio_http_requests_total"))
}
