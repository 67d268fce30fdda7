package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/salespos/backend/internal/application/finance"
)

// ReceivableHandler handles receivable-related API endpoints
type ReceivableHandler struct {
	BaseHandler
	receivableService *financeapp.ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(receivableService *financeapp.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{
		receivableService: receivableService,
	}
}

// GetByID retrieves a receivable by ID
func (h *ReceivableHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	receivable, err := h.receivableService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivable)
}

// List lists receivables with filters and pagination
func (h *ReceivableHandler) List(c *gin.Context) {
	var filter financeapp.ReceivableListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.receivableService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListBySale lists all installments of a sale
func (h *ReceivableHandler) ListBySale(c *gin.Context) {
	saleID, ok := parseIDParam(c, "sale_id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	receivables, err := h.receivableService.ListBySale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivables)
}

// RegisterPayment records a full or partial payment against a receivable.
// Payments exceeding the outstanding amount are rejected.
func (h *ReceivableHandler) RegisterPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receivable ID format")
		return
	}

	var req financeapp.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receivable, err := h.receivableService.RegisterPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receivable)
}
