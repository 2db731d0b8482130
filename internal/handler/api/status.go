package api

import (
	"time"

	domrepo "Sentinel/internal/domain/repository"
	"Sentinel/internal/usecase"
	xhttp "Sentinel/pkg/http"
	xlogger "Sentinel/pkg/logger"
	"Sentinel/pkg/util"

	"github.com/labstack/echo/v4"
)

const maxQueryWindow = 24 * time.Hour

// StatusHandler serves the read-only operational API: health, recent
// scored events, and alert outcome counters.
type StatusHandler struct {
	logger    *xlogger.Logger
	storage   domrepo.Storage
	collector *usecase.EventCollector
}

func NewStatusHandler(logger *xlogger.Logger, storage domrepo.Storage, collector *usecase.EventCollector) *StatusHandler {
	return &StatusHandler{logger: logger, storage: storage, collector: collector}
}

func (h *StatusHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/recent", h.Recent)
	g.GET("/outcomes", h.Outcomes)
}

type recentRequest struct {
	From     string  `query:"from"`
	To       string  `query:"to"`
	MinScore float64 `query:"min_score" validate:"gte=0,lte=100"`
	Limit    int     `query:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type outcomesRequest struct {
	Since string `query:"since"`
}

func (h *StatusHandler) Health(c echo.Context) error {
	status := "ok"
	storageErr := ""
	if err := h.storage.Health(c.Request().Context()); err != nil {
		status = "degraded"
		storageErr = err.Error()
	}
	connected := h.collector != nil && h.collector.IsConnected()
	if !connected {
		status = "degraded"
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":           status,
		"stream_connected": connected,
		"storage_error":    storageErr,
	})
}

func (h *StatusHandler) Recent(c echo.Context) error {
	req := &recentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(req.From, now.Add(-time.Hour))
	to := xhttp.ParseTimeDefault(req.To, now)
	from, to = util.ClampRange(from, to, maxQueryWindow)

	rows, err := h.storage.RecentEvents(c.Request().Context(), from, to, req.MinScore, req.Limit)
	if err != nil {
		h.logger.Error("recent events query failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *StatusHandler) Outcomes(c echo.Context) error {
	req := &outcomesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	since := xhttp.ParseTimeDefault(req.Since, time.Now().UTC().Add(-maxQueryWindow))

	counts, err := h.storage.OutcomeCounts(c.Request().Context(), since)
	if err != nil {
		h.logger.Error("outcome counts query failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, counts)
}
