package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// contextからユーザーID（UUID文字列）を取り出す
func getUserIDFromContext(c echo.Context) (string, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return "", false
	}

	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

// /invoices のHTTP
type InvoiceHandler struct {
	uc    *usecase.InvoiceUsecase
	logUC *usecase.InvoiceLogUsecase
}

// DI
func NewInvoiceHandler(uc *usecase.InvoiceUsecase, logUC *usecase.InvoiceLogUsecase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, logUC: logUC}
}

type UpdateStatusRequest struct {
	InvoiceStatus string `json:"invoice_status"`
}

type DocumentActionRequest struct {
	//pdf_generated / print / email
	Action     string `json:"action"`
	InvoiceNum string `json:"invoice_num"`
}

// /invoices 配下を登録
func (h *InvoiceHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/invoices")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/number", h.generateNumber)
	g.GET("/:id", h.detail)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.PUT("/:id/status", h.updateStatus)
	g.POST("/:id/finalize", h.finalize)
	g.POST("/:id/view", h.recordView)
	g.POST("/:id/document", h.recordDocument)
}

func (h *InvoiceHandler) list(c echo.Context) error {
	var f repository.InvoiceListFilter

	// page（default 1）
	f.Page = 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		f.Page = p
	}

	// limit（default 20）
	f.Limit = 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		f.Limit = l
	}

	f.Status = c.QueryParam("status")
	f.Q = c.QueryParam("q")
	f.DateField = c.QueryParam("date_field")

	if v := c.QueryParam("client_id"); v != "" {
		f.ClientID = &v
	}
	if v := c.QueryParam("driver_id"); v != "" {
		f.DriverID = &v
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		f.To = &t
	}

	out, err := h.uc.ListInvoices(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *InvoiceHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.SaveInvoiceInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateInvoice(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *InvoiceHandler) detail(c echo.Context) error {
	out, err := h.uc.GetInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *InvoiceHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.SaveInvoiceInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateInvoice(c.Request().Context(), userID, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *InvoiceHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.DeleteInvoice(c.Request().Context(), userID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "invoice deleted"})
}

func (h *InvoiceHandler) updateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.UpdateStatus(c.Request().Context(), userID, c.Param("id"), model.InvoiceStatus(req.InvoiceStatus))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "status updated"})
}

func (h *InvoiceHandler) finalize(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.FinalizeInvoice(c.Request().Context(), userID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "invoice finalized"})
}

// 閲覧の記録（system_logsのみ）
func (h *InvoiceHandler) recordView(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	invoiceID := c.Param("id")
	out, err := h.uc.GetInvoice(c.Request().Context(), invoiceID)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.logUC.LogInvoiceView(c.Request().Context(), invoiceID, userID, out.Invoice.InvoiceNum); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "view recorded"})
}

// PDF生成・印刷・メール送信の記録（system_logsのみ）
func (h *InvoiceHandler) recordDocument(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req DocumentActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var actionType model.ChangeType
	switch req.Action {
	case "pdf_generated":
		actionType = model.ChangeTypePDFGenerated
	case "print":
		actionType = model.ChangeTypePrint
	case "email":
		actionType = model.ChangeTypeEmail
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid action"})
	}

	err := h.logUC.LogInvoiceDocument(c.Request().Context(), c.Param("id"), userID, actionType, req.InvoiceNum)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "action recorded"})
}

// 請求書番号の採番（client_idはクエリで渡す）
func (h *InvoiceHandler) generateNumber(c echo.Context) error {
	num, err := h.uc.GenerateInvoiceNumber(c.Request().Context(), c.QueryParam("client_id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"invoice_num": num})
}
