package handler

import (
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /logs のHTTP。管理者のみ。
type LogHandler struct {
	uc *usecase.LogUsecase
}

// DI
func NewLogHandler(uc *usecase.LogUsecase) *LogHandler {
	return &LogHandler{uc: uc}
}

// /logs 配下を登録（AuthJWT + AdminRoleGuard）
func (h *LogHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/logs")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.GET("/export", h.export)
}

func (h *LogHandler) parseFilter(c echo.Context) (usecase.LogFeedFilter, error) {
	f := usecase.LogFeedFilter{
		ActionType: c.QueryParam("action_type"),
		Search:     c.QueryParam("q"),
	}

	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, usecase.NewHTTPError(http.StatusBadRequest, "invalid from")
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, usecase.NewHTTPError(http.StatusBadRequest, "invalid to")
		}
		f.To = &t
	}

	return f, nil
}

func (h *LogHandler) list(c echo.Context) error {
	f, err := h.parseFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	entries, err := h.uc.ListLogs(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items": entries,
		"total": len(entries),
	})
}

// format=csv|json|xlsx（default csv）
func (h *LogHandler) export(c echo.Context) error {
	f, err := h.parseFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	entries, err := h.uc.ListLogs(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		data, err := h.uc.ExportCSV(entries)
		if err != nil {
			return writeError(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="logs.csv"`)
		return c.Blob(http.StatusOK, "text/csv", data)

	case "json":
		data, err := h.uc.ExportJSON(entries)
		if err != nil {
			return writeError(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="logs.json"`)
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)

	case "xlsx":
		data, err := h.uc.ExportXLSX(entries)
		if err != nil {
			return writeError(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="logs.xlsx"`)
		return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid format"})
	}
}
