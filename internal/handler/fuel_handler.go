package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /fuel のHTTP（ディーゼル単価と燃料費見積もり）
type FuelHandler struct {
	uc *usecase.FuelUsecase
}

// DI
func NewFuelHandler(uc *usecase.FuelUsecase) *FuelHandler {
	return &FuelHandler{uc: uc}
}

type FuelEstimateRequest struct {
	DistanceMiles  decimal.Decimal `json:"distance_miles"`
	MilesPerGallon decimal.Decimal `json:"miles_per_gallon"`
}

// /fuel 配下を登録
func (h *FuelHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/fuel")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/diesel-price", h.dieselPrice)
	g.POST("/estimate", h.estimate)
}

func (h *FuelHandler) dieselPrice(c echo.Context) error {
	price := h.uc.DieselPrice(c.Request().Context())

	return c.JSON(http.StatusOK, map[string]decimal.Decimal{"price_per_gallon": price})
}

func (h *FuelHandler) estimate(c echo.Context) error {
	var req FuelEstimateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.EstimateFuelCost(c.Request().Context(), req.DistanceMiles, req.MilesPerGallon)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
