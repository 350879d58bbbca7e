package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"YTM4A/internal/domain/models"
	domrepo "YTM4A/internal/domain/repository"
	xhttp "YTM4A/pkg/http"
	"YTM4A/pkg/http/middleware"
	xlogger "YTM4A/pkg/logger"
)

// Processor runs one request through the pipeline.
type Processor interface {
	Process(ctx context.Context, req models.ProcessRequest) (*models.ProcessResult, error)
	AnalysisEnabled() bool
}

// ProgressStream serves the websocket feed of state transitions.
type ProgressStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
	Subscribers() int
	Dropped() int
}

// Handler serves the browser-extension API.
type Handler struct {
	proc     Processor
	store    domrepo.CategoryStore
	temps    domrepo.TempRegistry
	progress ProgressStream
	limiter  middleware.Allower
	logger   *xlogger.Logger
}

// NewHandler builds the API handler. progress and limiter may be nil.
func NewHandler(
	proc Processor,
	store domrepo.CategoryStore,
	temps domrepo.TempRegistry,
	progress ProgressStream,
	limiter middleware.Allower,
	l *xlogger.Logger,
) *Handler {
	return &Handler{
		proc:     proc,
		store:    store,
		temps:    temps,
		progress: progress,
		limiter:  limiter,
		logger:   l.Component("api"),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	var mw []echo.MiddlewareFunc
	if h.limiter != nil {
		mw = append(mw, middleware.RateLimit(h.limiter))
	}
	e.POST("/process", h.Process, mw...)
	e.GET("/download/temp/:filename", h.DownloadTemp)
	e.GET("/download/:category/:filename", h.Download)
	e.GET("/health", h.Health)
	e.GET("/categories", h.Categories)
	if h.progress != nil {
		e.GET("/ws/progress", echo.WrapHandler(http.HandlerFunc(h.progress.ServeWS)))
	}
}

// Process handles POST /process.
func (h *Handler) Process(c echo.Context) error {
	req := &models.ProcessRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.proc.Process(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("process failed",
			xlogger.String("url", req.URL),
			xlogger.String("category", req.Category),
			xlogger.Error(err),
		)
		return xhttp.ErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Download handles GET /download/:category/:filename.
func (h *Handler) Download(c echo.Context) error {
	name := pathParam(c, "filename")
	cat, ok := models.ParseCategory(pathParam(c, "category"))
	if !ok {
		return xhttp.ErrorResponse(c, models.NewError(models.KindNotFound, "File not found"))
	}
	path, err := h.store.Resolve(cat, name)
	if err != nil {
		return xhttp.ErrorResponse(c, err)
	}
	return c.Attachment(path, name)
}

// DownloadTemp handles GET /download/temp/:filename?key=. Nothing is
// streamed unless the key resolves to a file with exactly that basename.
func (h *Handler) DownloadTemp(c echo.Context) error {
	name := pathParam(c, "filename")
	path, err := h.temps.Resolve(c.Request().Context(), c.QueryParam("key"), name)
	if err != nil {
		h.logger.Warn("temp download rejected", xlogger.String("filename", name), xlogger.Error(err))
		return xhttp.ErrorResponse(c, err)
	}
	return c.Attachment(path, name)
}

func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
