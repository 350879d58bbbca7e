package api

import (
	"github.com/labstack/echo/v4"

	"YTM4A/internal/domain/models"
	xhttp "YTM4A/pkg/http"
	xlogger "YTM4A/pkg/logger"
)

type HealthResponse struct {
	Status           string            `json:"status"`
	AnalysisEnabled  bool              `json:"analysis_enabled"`
	DownloadOnlyMode bool              `json:"download_only_mode"`
	TempFiles        int               `json:"temp_files"`
	Listeners        int               `json:"progress_listeners"`
	DroppedEvents    int               `json:"progress_dropped"`
	Categories       []models.Category `json:"categories"`
}

type CategoryInfo struct {
	Name           models.Category `json:"name"`
	RequiresTicker bool            `json:"requires_ticker"`
}

// Health handles GET /health.
func (h *Handler) Health(c echo.Context) error {
	count, err := h.temps.Count(c.Request().Context())
	if err != nil {
		h.logger.Warn("temp registry count failed", xlogger.Error(err))
	}
	res := HealthResponse{
		Status:           "healthy",
		AnalysisEnabled:  h.proc.AnalysisEnabled(),
		DownloadOnlyMode: !h.proc.AnalysisEnabled(),
		TempFiles:        count,
		Categories:       models.Categories(),
	}
	if h.progress != nil {
		res.Listeners = h.progress.Subscribers()
		res.DroppedEvents = h.progress.Dropped()
	}
	return xhttp.SuccessResponse(c, res)
}

// Categories handles GET /categories.
func (h *Handler) Categories(c echo.Context) error {
	cats := models.Categories()
	out := make([]CategoryInfo, len(cats))
	for i, cat := range cats {
		out[i] = CategoryInfo{Name: cat, RequiresTicker: cat.RequiresTicker()}
	}
	return xhttp.SuccessResponse(c, out)
}
