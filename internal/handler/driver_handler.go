package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /drivers のHTTP
type DriverHandler struct {
	uc *usecase.DriverUsecase
}

// DI
func NewDriverHandler(uc *usecase.DriverUsecase) *DriverHandler {
	return &DriverHandler{uc: uc}
}

type SetDriverStatusRequest struct {
	Active bool `json:"active"`
}

// /drivers 配下を登録
func (h *DriverHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/drivers")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id/status", h.setStatus)
}

func (h *DriverHandler) list(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"

	out, err := h.uc.List(c.Request().Context(), activeOnly)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *DriverHandler) create(c echo.Context) error {
	var req usecase.CreateDriverInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *DriverHandler) setStatus(c echo.Context) error {
	var req SetDriverStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetStatus(c.Request().Context(), c.Param("id"), req.Active); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "status updated"})
}
