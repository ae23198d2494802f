package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped and
// freshly built errors of one kind match errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeMalformedRecord       = "MALFORMED_RECORD"
	CodeInvalidFilterCriteria = "INVALID_FILTER_CRITERIA"
	CodeUnknownRole           = "UNKNOWN_ROLE"
	CodePageOutOfRange        = "PAGE_OUT_OF_RANGE"
)

// Common domain errors
var (
	ErrNotFound              = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists         = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput          = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrMalformedRecord       = NewDomainError(CodeMalformedRecord, "Record is missing a required field")
	ErrInvalidFilterCriteria = NewDomainError(CodeInvalidFilterCriteria, "Filter value is not recognized")
	ErrUnknownRole           = NewDomainError(CodeUnknownRole, "Role is not recognized")
	ErrPageOutOfRange        = NewDomainError(CodePageOutOfRange, "Requested page is out of range")
)

// MalformedRecordError identifies the record and the field that could not be
// evaluated. It matches ErrMalformedRecord under errors.Is.
type MalformedRecordError struct {
	RecordID string
	Field    string
	Reason   string
}

// NewMalformedRecordError creates a MalformedRecordError
func NewMalformedRecordError(recordID, field, reason string) *MalformedRecordError {
	return &MalformedRecordError{RecordID: recordID, Field: field, Reason: reason}
}

func (e *MalformedRecordError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("record %s: field %s is malformed", e.RecordID, e.Field)
	}
	return fmt.Sprintf("record %s: field %s is malformed: %s", e.RecordID, e.Field, e.Reason)
}

// Unwrap returns ErrMalformedRecord so callers can branch on the code.
func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }
