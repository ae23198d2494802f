package router

import (
	"github.com/billadmin/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers served under the versioned API
type Handlers struct {
	Lists   *handler.ListHandler
	Billing *handler.BillingHandler
	System  *handler.SystemHandler
}

// RegisterAPI wires the billing admin routes. Health is served both at the
// root and under the versioned group. The versioned group runs middleware in
// order, starting with authentication.
func RegisterAPI(engine *gin.Engine, h Handlers, middleware ...gin.HandlerFunc) *Router {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithMiddleware(middleware...))

	r.Register(NewDomainGroup("system", "").GET("/health", h.System.Health))
	r.Register(NewDomainGroup("customers", "").
		GET("/accounts", h.Lists.Accounts).
		GET("/profiles", h.Lists.Profiles))
	r.Register(NewDomainGroup("catalog", "").
		GET("/plans", h.Lists.Plans).
		GET("/services", h.Lists.Services))
	r.Register(NewDomainGroup("billing", "").
		GET("/invoices", h.Lists.Invoices).
		GET("/invoices/:id", h.Billing.Invoice).
		GET("/billing/summary", h.Billing.Summary))

	r.Setup()
	return r
}
