package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	applogger "YTM4A/pkg/logger"
)

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := echo.New()
	e.Use(Metrics(reg, applogger.NewNop(), time.Minute))
	e.GET("/download/:category/:filename", func(c echo.Context) error {
		return c.String(http.StatusOK, "audio")
	})

	for _, p := range []string{"/download/AI/a.m4a", "/download/Finance/b.m4a"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	m := newHTTPMetrics(prometheus.NewRegistry())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))

	count, err := testutil.GatherAndCount(reg, "ytm4a_http_requests_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count, "one series for both filenames")
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "4xx", statusClass(429))
	assert.Equal(t, "5xx", statusClass(0))
}
