package api

import (
	"errors"
	"net/http"
	"time"

	"FundPulse/internal/domain/models"
	"FundPulse/internal/indicator"
	"FundPulse/internal/strategy"
	"FundPulse/internal/usecase"
	xhttp "FundPulse/pkg/http"
	xlogger "FundPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StrategiesHandler exposes the signal engine over HTTP.
type StrategiesHandler struct {
	logger *xlogger.Logger
	svc    *usecase.SignalService
	stream *StreamHandler
}

func NewStrategiesHandler(logger *xlogger.Logger, svc *usecase.SignalService, stream *StreamHandler) *StrategiesHandler {
	return &StrategiesHandler{logger: logger, svc: svc, stream: stream}
}

func (h *StrategiesHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/strategies/apply", h.Apply)
	g.POST("/strategies/apply-all", h.ApplyAll)
	g.GET("/strategies", h.List)
	g.GET("/strategies/:id", h.Describe)
	g.GET("/strategies/:id/config", h.GetConfig)
	g.PUT("/strategies/:id/config", h.SetConfig)
	g.GET("/funds/:code/nav", h.NavHistory)

	e.GET("/healthz", h.Health)
	if h.stream != nil {
		e.GET("/ws/signals", h.stream.Serve)
	}
}

func (h *StrategiesHandler) Apply(c echo.Context) error {
	req := &models.ApplyStrategyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.Apply(c.Request().Context(), req)
	if err != nil {
		return h.engineError(c, err)
	}
	if h.stream != nil {
		h.stream.Broadcast(res)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StrategiesHandler) ApplyAll(c echo.Context) error {
	req := &models.ApplyAllRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	signals, failures, err := h.svc.ApplyAll(c.Request().Context(), req)
	if err != nil {
		return h.engineError(c, err)
	}
	if h.stream != nil {
		for _, res := range signals {
			h.stream.Broadcast(res)
		}
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"fund_code": req.FundCode,
		"signals":   signals,
		"errors":    failures,
	})
}

func (h *StrategiesHandler) List(c echo.Context) error {
	rows := h.svc.Strategies()
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *StrategiesHandler) Describe(c echo.Context) error {
	d, err := h.svc.Describe(c.Param("id"))
	if err != nil {
		return h.engineError(c, err)
	}
	return xhttp.SuccessResponse(c, d)
}

func (h *StrategiesHandler) GetConfig(c echo.Context) error {
	params, err := h.svc.GetConfig(c.Param("id"))
	if err != nil {
		return h.engineError(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"strategy_id": c.Param("id"),
		"parameters":  params,
	})
}

func (h *StrategiesHandler) SetConfig(c echo.Context) error {
	req := &models.UpdateStrategyConfigRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	id := c.Param("id")
	if err := h.svc.SetConfig(id, req.Parameters); err != nil {
		return h.engineError(c, err)
	}
	params, err := h.svc.GetConfig(id)
	if err != nil {
		return h.engineError(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"strategy_id": id,
		"parameters":  params,
	})
}

func (h *StrategiesHandler) NavHistory(c echo.Context) error {
	req := &models.NavHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var rows []models.NavPointResponse
	var err error
	if req.Last > 0 {
		// last=N overrides the date window and returns the trailing rows.
		rows, err = h.svc.NavLatest(c.Request().Context(), c.Param("code"), req.Last)
	} else {
		now := time.Now()
		to := xhttp.ParseTimeDefault(req.To, now)
		from := xhttp.ParseTimeDefault(req.From, to.AddDate(0, 0, -req.Days))
		rows, err = h.svc.NavHistory(c.Request().Context(), c.Param("code"), from, to)
	}
	if err != nil {
		h.logger.Error("nav history error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *StrategiesHandler) Health(c echo.Context) error {
	if err := h.svc.Health(c.Request().Context()); err != nil {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
	}
	return xhttp.SuccessResponse(c, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// engineError maps the engine's error taxonomy onto HTTP statuses.
func (h *StrategiesHandler) engineError(c echo.Context, err error) error {
	var unknown *strategy.UnknownStrategyError
	var invalid *strategy.InvalidParameterError
	var malformed *strategy.MalformedSeriesError
	var insufficient *indicator.InsufficientDataError

	switch {
	case errors.As(err, &unknown):
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_UNKNOWN_STRATEGY", "strategy_id", err.Error(), http.StatusNotFound))
	case errors.As(err, &invalid):
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_INVALID_PARAMETER", invalid.Field, err.Error(), http.StatusBadRequest))
	case errors.As(err, &malformed):
		return xhttp.AppErrorResponse(c,
			xhttp.UnprocessableError(err.Error()).WithParam("index", malformed.Index))
	case errors.As(err, &insufficient):
		return xhttp.AppErrorResponse(c,
			xhttp.UnprocessableError(err.Error()).
				WithParam("need", insufficient.Need).
				WithParam("have", insufficient.Have))
	default:
		h.logger.Error("engine error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}
