package handler

import (
	"errors"
	"net/http"

	"github.com/billadmin/backend/internal/domain/access"
	"github.com/billadmin/backend/internal/domain/listing"
	"github.com/billadmin/backend/internal/domain/shared"
	"github.com/billadmin/backend/internal/infrastructure/logger"
	"github.com/billadmin/backend/internal/interfaces/http/dto"
	"github.com/billadmin/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDKey)
}

// getPrincipal returns the authenticated caller set by the JWT middleware
func getPrincipal(c *gin.Context) (access.Principal, bool) {
	return middleware.GetPrincipal(c)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	resp := dto.NewErrorResponse(code, message)
	resp.Error.RequestID = getRequestID(c)
	c.JSON(statusCode, resp)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain errors to HTTP responses; anything else is a 500
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var malformed *shared.MalformedRecordError
	if errors.As(err, &malformed) {
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeMalformedRecord, malformed.Error())
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	logger.FromContext(c.Request.Context()).Error("Request failed", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

// respondList sends one page of a list
func respondList[T any](c *gin.Context, res *listing.Result[T]) {
	c.JSON(http.StatusOK, dto.NewListResponse(res))
}
