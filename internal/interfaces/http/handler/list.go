package handler

import (
	"context"

	"github.com/billadmin/backend/internal/application/screen"
	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/domain/listing"
	"github.com/billadmin/backend/internal/interfaces/http/dto"
	"github.com/billadmin/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ListHandler serves the list screens
type ListHandler struct {
	BaseHandler
	screens *screen.Service
}

// NewListHandler creates a new ListHandler
func NewListHandler(screens *screen.Service) *ListHandler {
	return &ListHandler{screens: screens}
}

// parseQuery reads the applied criteria and paging parameters. Every
// criteria key the screen understands may be passed as a query parameter
// of the same name; absent keys keep their no-op default.
func (h *ListHandler) parseQuery(c *gin.Context, name string) (listing.Query, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return listing.Query{}, false
	}

	criteria, err := h.screens.Defaults(name)
	if err != nil {
		h.HandleError(c, err)
		return listing.Query{}, false
	}
	fields, err := h.screens.FieldNames(name)
	if err != nil {
		h.HandleError(c, err)
		return listing.Query{}, false
	}
	for _, field := range fields {
		if v, ok := c.GetQuery(field); ok {
			criteria[field] = v
		}
	}

	return listing.Query{
		Criteria: criteria,
		Sort:     listing.SortSpec{Field: req.Sort, Direction: listing.Direction(req.Direction)},
		Page:     req.Page,
		PageSize: req.PageSize,
	}, true
}

// serveList runs one list request for the authenticated caller
func serveList[T any](h *ListHandler, c *gin.Context, name string, list func(context.Context, access.Principal, listing.Query) (*listing.Result[T], error)) {
	principal, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	q, ok := h.parseQuery(c, name)
	if !ok {
		return
	}

	res, err := list(c.Request.Context(), principal, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondList(c, res)
}

// Accounts godoc
// @Summary      List accounts
// @Description  Accounts visible to the caller. Filters: searchTerm, accountId, accountName, status, businessType
// @Tags         accounts
// @Produce      json
// @Param        sort query string false "Sort field" Enums(name, email, phone, city, depositPaid, createdAt)
// @Param        direction query string false "Sort direction" Enums(asc, desc)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(10) maximum(100)
// @Security     BearerAuth
// @Router       /accounts [get]
func (h *ListHandler) Accounts(c *gin.Context) {
	serveList(h, c, screen.Accounts, h.screens.ListAccounts)
}

// Profiles godoc
// @Summary      List profiles
// @Description  Profiles visible to the caller. Filters: searchTerm, profileId, name, phone, status, profession
// @Tags         profiles
// @Security     BearerAuth
// @Router       /profiles [get]
func (h *ListHandler) Profiles(c *gin.Context) {
	serveList(h, c, screen.Profiles, h.screens.ListProfiles)
}

// Plans godoc
// @Summary      List plans
// @Description  Plans offered to the caller's role. Filters: searchTerm, serviceType, planType, status
// @Tags         plans
// @Security     BearerAuth
// @Router       /plans [get]
func (h *ListHandler) Plans(c *gin.Context) {
	serveList(h, c, screen.Plans, h.screens.ListPlans)
}

// Services godoc
// @Summary      List services
// @Description  Services visible to the caller. Filters: searchTerm, serviceId, serviceName, serviceType, planStatus, profileId, accountId
// @Tags         services
// @Security     BearerAuth
// @Router       /services [get]
func (h *ListHandler) Services(c *gin.Context) {
	serveList(h, c, screen.Services, h.screens.ListServices)
}

// Invoices godoc
// @Summary      List invoices
// @Description  Invoices visible to the caller with computed overdue fields.
// @Description  Filters: searchTerm, invoiceId, accountName, month, status, paidStatus, category, accountId, profileId
// @Tags         invoices
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *ListHandler) Invoices(c *gin.Context) {
	serveList(h, c, screen.Invoices, h.screens.ListInvoices)
}
