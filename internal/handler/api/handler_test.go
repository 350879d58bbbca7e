package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YTM4A/internal/domain/models"
	"YTM4A/internal/repository"
	"YTM4A/pkg/cache"
	xhttp "YTM4A/pkg/http"
	"YTM4A/pkg/logger"
)

type fakeProcessor struct {
	calls    int
	result   *models.ProcessResult
	err      error
	analysis bool
}

func (f *fakeProcessor) Process(_ context.Context, req models.ProcessRequest) (*models.ProcessResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeProcessor) AnalysisEnabled() bool { return f.analysis }

type fakeStream struct{ listeners, dropped int }

func (fakeStream) ServeWS(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }
func (f fakeStream) Subscribers() int { return f.listeners }
func (f fakeStream) Dropped() int { return f.dropped }

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

type env struct {
	e     *echo.Echo
	proc  *fakeProcessor
	base  string
	temp  string
	temps *repository.CacheTempRegistry
}

func newEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	ev := &env{
		e:    echo.New(),
		proc: &fakeProcessor{},
		base: filepath.Join(root, "downloads"),
		temp: filepath.Join(root, "temp"),
	}
	require.NoError(t, os.MkdirAll(ev.temp, 0o755))
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	ev.temps = repository.NewTempRegistry(mc, ev.temp, time.Hour, logger.NewNop())

	ev.e.HTTPErrorHandler = xhttp.HTTPErrorHandler
	NewHandler(ev.proc, repository.NewCategoryStore(ev.base, ev.temp), ev.temps, nil, nil, logger.NewNop()).
		RegisterRoutes(ev.e)
	return ev
}

func (ev *env) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ev.e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) xhttp.ErrorBody {
	t.Helper()
	var body xhttp.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	return body
}

func TestProcessMissingFieldsIs400(t *testing.T) {
	ev := newEnv(t)
	rec := ev.do(http.MethodPost, "/process", `{"category":"AI"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Missing required fields: url", body.Message)
	assert.Zero(t, ev.proc.calls)
}

func TestProcessSuccess(t *testing.T) {
	ev := newEnv(t)
	ev.proc.result = &models.ProcessResult{Status: "success", Filename: "250122_Test_Video.m4a", Category: models.CategoryAI}

	rec := ev.do(http.MethodPost, "/process", `{"url":"https://youtu.be/abc","category":"AI"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.ProcessResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "250122_Test_Video.m4a", res.Filename)
	assert.Equal(t, 1, ev.proc.calls)
}

func TestProcessErrorStatusByKind(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{models.NewError(models.KindValidation, "Ticker symbol required for Finance category"), http.StatusBadRequest},
		{models.NewError(models.KindInvalidInput, "Invalid YouTube URL"), http.StatusBadRequest},
		{models.CommandError(models.KindTranscode, "ffmpeg -i x", "broken pipe", nil), http.StatusInternalServerError},
		{models.NewError(models.KindAnalysis, "transcription failed"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		ev := newEnv(t)
		ev.proc.err = tc.err
		rec := ev.do(http.MethodPost, "/process", `{"url":"https://youtu.be/abc","category":"Finance"}`)

		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Equal(t, tc.err.Error(), decodeError(t, rec).Message)
	}
}

func TestProcessRateLimited(t *testing.T) {
	ev := newEnv(t)
	e := echo.New()
	e.HTTPErrorHandler = xhttp.HTTPErrorHandler
	NewHandler(ev.proc, nil, ev.temps, nil, denyAll{}, logger.NewNop()).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Zero(t, ev.proc.calls)
}

func TestDownloadCategoryFile(t *testing.T) {
	ev := newEnv(t)
	dir := filepath.Join(ev.base, "AI")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "250122_Test_Video.m4a"), []byte("audio-bytes"), 0o644))

	rec := ev.do(http.MethodGet, "/download/AI/250122_Test_Video.m4a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio-bytes", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")

	for _, target := range []string{
		"/download/AI/missing.m4a",
		"/download/Cooking/250122_Test_Video.m4a",
		"/download/AI/..%2F..%2Fetc%2Fpasswd",
	} {
		rec := ev.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.NotContains(t, rec.Body.String(), "audio-bytes")
	}
}

func TestDownloadTemp(t *testing.T) {
	ev := newEnv(t)
	p := filepath.Join(ev.temp, "250122_Test_Video.m4a")
	require.NoError(t, os.WriteFile(p, []byte("temp-bytes"), 0o644))
	key, err := ev.temps.Register(context.Background(), p)
	require.NoError(t, err)

	rec := ev.do(http.MethodGet, "/download/temp/250122_Test_Video.m4a?key="+key, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "temp-bytes", rec.Body.String())

	rec = ev.do(http.MethodGet, "/download/temp/other.m4a?key="+key, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "temp-bytes")
	assert.Equal(t, "Filename does not match download key", decodeError(t, rec).Message)

	rec = ev.do(http.MethodGet, "/download/temp/250122_Test_Video.m4a?key=nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "temp-bytes")

	rec = ev.do(http.MethodGet, "/download/temp/250122_Test_Video.m4a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthReportsProgressStream(t *testing.T) {
	ev := newEnv(t)
	e := echo.New()
	NewHandler(ev.proc, nil, ev.temps, fakeStream{listeners: 2, dropped: 5}, nil, logger.NewNop()).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, 2, health.Listeners)
	assert.Equal(t, 5, health.DroppedEvents)
}

func TestHealthAndCategories(t *testing.T) {
	ev := newEnv(t)
	p := filepath.Join(ev.temp, "a.m4a")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	_, err := ev.temps.Register(context.Background(), p)
	require.NoError(t, err)

	rec := ev.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.False(t, health.AnalysisEnabled)
	assert.True(t, health.DownloadOnlyMode)
	assert.Equal(t, 1, health.TempFiles)
	assert.Len(t, health.Categories, 4)

	rec = ev.do(http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cats []CategoryInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 4)
	assert.Equal(t, CategoryInfo{Name: models.CategoryFinance, RequiresTicker: true}, cats[0])
	assert.Equal(t, CategoryInfo{Name: models.CategoryAI, RequiresTicker: false}, cats[2])
}
