package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/billadmin/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// paramTags are the struct tags naming a request parameter, in lookup order
var paramTags = []string{"form", "uri", "json"}

// SetupValidator makes validation errors name fields by the query, path or
// body parameter they were bound from
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(paramName)
	}
}

func paramName(fld reflect.StructField) string {
	for _, tag := range paramTags {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// FormatValidationErrors lists every rejected parameter in a validation
// error response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		details = make([]dto.ValidationDetail, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError aborts with a 400 validation response
func HandleValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString("request_id")))
}

func validationMessage(fe validator.FieldError) string {
	bound := func(prefix string) string {
		if fe.Type().Kind() == reflect.String {
			return prefix + " " + fe.Param() + " characters"
		}
		return prefix + " " + fe.Param()
	}

	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min", "gte":
		return bound("Must be at least")
	case "max", "lte":
		return bound("Must be at most")
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}
