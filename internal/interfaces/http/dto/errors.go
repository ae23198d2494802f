package dto

import (
	"net/http"

	"github.com/billadmin/backend/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeUnknownRole is reported in logs only; requests fall back to user scope
	ErrCodeUnknownRole = "ERR_UNKNOWN_ROLE"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeMalformedRecord is used when a single looked-up record is unusable
	ErrCodeMalformedRecord = "ERR_MALFORMED_RECORD"
)

// Input error codes
const (
	ErrCodeBadRequest            = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput          = "ERR_INVALID_INPUT"
	ErrCodeInvalidFilterCriteria = "ERR_INVALID_FILTER_CRITERIA"
	ErrCodePageOutOfRange        = "ERR_PAGE_OUT_OF_RANGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeUnknownRole:  http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeAlreadyExists:   http.StatusConflict,
	ErrCodeMalformedRecord: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:            http.StatusBadRequest,
	ErrCodeInvalidInput:          http.StatusBadRequest,
	ErrCodeInvalidFilterCriteria: http.StatusBadRequest,
	ErrCodePageOutOfRange:        http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	shared.CodeNotFound:              ErrCodeNotFound,
	shared.CodeAlreadyExists:         ErrCodeAlreadyExists,
	shared.CodeInvalidInput:          ErrCodeInvalidInput,
	shared.CodeMalformedRecord:       ErrCodeMalformedRecord,
	shared.CodeInvalidFilterCriteria: ErrCodeInvalidFilterCriteria,
	shared.CodeUnknownRole:           ErrCodeUnknownRole,
	shared.CodePageOutOfRange:        ErrCodePageOutOfRange,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
