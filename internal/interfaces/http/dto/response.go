package dto

import "github.com/billadmin/backend/internal/domain/listing"

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata and the list state behind it
type Meta struct {
	Total       int               `json:"total"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
	TotalPages  int               `json:"total_pages"`
	HasNext     bool              `json:"has_next"`
	HasPrevious bool              `json:"has_previous"`
	Showing     string            `json:"showing"`
	Sort        listing.SortSpec  `json:"sort"`
	Filters     map[string]string `json:"filters,omitempty"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewListResponse creates a success response for one page of a list
func NewListResponse[T any](res *listing.Result[T]) Response {
	page := res.Page
	meta := &Meta{
		Total:       page.TotalCount,
		Page:        page.PageNumber,
		PageSize:    page.PageSize,
		TotalPages:  page.TotalPages,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
		Showing:     page.Showing(),
		Sort:        res.Sort,
		Filters:     activeFilters(res.Criteria),
	}
	for _, w := range res.Warnings {
		meta.Warnings = append(meta.Warnings, w.Error())
	}
	return Response{
		Success: true,
		Data:    page.Items,
		Meta:    meta,
	}
}

// activeFilters drops the no-op values so clients see only what constrains the list
func activeFilters(c listing.Criteria) map[string]string {
	active := make(map[string]string)
	for k, v := range c {
		if v == "" || v == listing.AllValue {
			continue
		}
		active[k] = v
	}
	if len(active) == 0 {
		return nil
	}
	return active
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   message,
			RequestID: requestID,
			Details:   details,
		},
	}
}

// ListRequest represents the paging and sorting parameters of a list request.
// Filter values are read from the remaining query parameters by field name.
type ListRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Sort      string `form:"sort"`
	Direction string `form:"direction" binding:"omitempty,oneof=asc desc"`
}

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,max=64"`
}
