package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /clients のHTTP
type ClientHandler struct {
	uc *usecase.ClientUsecase
}

// DI
func NewClientHandler(uc *usecase.ClientUsecase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// /clients 配下を登録
func (h *ClientHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/clients")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.detail)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)

	g.GET("/:id/branches", h.listBranches)
	g.POST("/:id/branches", h.createBranch)

	b := e.Group("/branches")
	b.Use(middleware.AuthJWT(cfg))
	b.PUT("/:id", h.updateBranch)
	b.DELETE("/:id", h.deleteBranch)
}

func (h *ClientHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ClientHandler) create(c echo.Context) error {
	var req usecase.SaveClientInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *ClientHandler) detail(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ClientHandler) update(c echo.Context) error {
	var req usecase.SaveClientInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ClientHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "client deleted"})
}

func (h *ClientHandler) listBranches(c echo.Context) error {
	out, err := h.uc.ListBranches(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ClientHandler) createBranch(c echo.Context) error {
	var req usecase.SaveBranchInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateBranch(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *ClientHandler) updateBranch(c echo.Context) error {
	var req usecase.SaveBranchInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateBranch(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ClientHandler) deleteBranch(c echo.Context) error {
	if err := h.uc.DeleteBranch(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "branch deleted"})
}
