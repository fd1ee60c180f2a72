package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRequest(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMetricsMiddleware(t *testing.T) {
	conf := DefaultMetricsConfig
	conf.Namespace = "metricstest"
	httpMetrics, err := registerHTTPMetrics(conf)
	require.NoError(t, err)
	httpMetrics.Reset()

	e := echo.New()
	e.Use(MetricsWithConfig(conf))
	e.GET("/api/v1/products", func(c echo.Context) error {
		return c.String(http.StatusOK, "[]")
	})
	e.GET("/api/v1/cart/summary", func(c echo.Context) error {
		return fmt.Errorf("cart backend down")
	})

	for i := 0; i < 10; i++ {
		makeRequest(e, http.MethodGet, "/api/v1/products")
	}
	for i := 0; i < 4; i++ {
		makeRequest(e, http.MethodGet, "/api/v1/cart/summary")
	}
	for i := 0; i < 7; i++ {
		makeRequest(e, http.MethodGet, fmt.Sprintf("/unknown/%d", i))
	}
	makeRequest(e, http.MethodPost, "/api/v1/nothing")

	body := makeRequest(e, http.MethodGet, "/metrics").Body.String()
	for _, want := range []string{
		`metricstest_http_request_duration_seconds_count{code="200",method="GET",path="/api/v1/products"} 10`,
		`metricstest_http_request_duration_seconds_count{code="500",method="GET",path="/api/v1/cart/summary"} 4`,
		`metricstest_http_request_duration_seconds_count{code="404",method="GET",path="/not-found"} 7`,
		`metricstest_http_request_duration_seconds_count{code="404",method="POST",path="/not-found"} 1`,
	} {
		assert.True(t, strings.Contains(body, want), "missing %s", want)
	}
}

func TestNormalizeHTTPStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1xx", normalizeHTTPStatus(101))
	assert.Equal(t, "2xx", normalizeHTTPStatus(204))
	assert.Equal(t, "3xx", normalizeHTTPStatus(304))
	assert.Equal(t, "4xx", normalizeHTTPStatus(404))
	assert.Equal(t, "5xx", normalizeHTTPStatus(503))
}
