package handler

import (
	billingapp "github.com/billadmin/backend/internal/application/billing"
	"github.com/billadmin/backend/internal/interfaces/http/dto"
	"github.com/billadmin/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// BillingHandler serves the billing dashboard and invoice lookups
type BillingHandler struct {
	BaseHandler
	overdue *billingapp.OverdueService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(overdue *billingapp.OverdueService) *BillingHandler {
	return &BillingHandler{overdue: overdue}
}

// Summary godoc
// @Summary      Billing summary
// @Description  Outstanding balance, overdue alerts and the number of invoices that could not be evaluated
// @Tags         billing
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /billing/summary [get]
func (h *BillingHandler) Summary(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.overdue.Summary(c.Request.Context(), principal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Invoice godoc
// @Summary      Get invoice
// @Description  One invoice with days overdue, late fee and amount due
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *BillingHandler) Invoice(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	detail, err := h.overdue.Invoice(c.Request.Context(), principal, req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}
