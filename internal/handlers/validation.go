package handlers

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Global validator instance (reused across all handlers)
var validate = newValidator()

var mobileRegex = regexp.MustCompile(`^\+?1?\d{9,15}$`)

func newValidator() *validator.Validate {
	v := validator.New()

	// Report errors under the json field name so they line up with the
	// request body
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// mobile: international number, optional "+", 9 to 15 digits
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRegex.MatchString(fl.Field().String())
	})

	return v
}

// ValidateRequest validates a request struct using go-playground/validator.
// Returns per-field error messages suitable for the response envelope, or nil.
func ValidateRequest(req interface{}) map[string][]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	fieldErrors := make(map[string][]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range ve {
			field := fieldError.Field()
			fieldErrors[field] = append(fieldErrors[field], formatValidationError(fieldError))
		}
		return fieldErrors
	}

	fieldErrors["request"] = []string{"invalid request"}
	return fieldErrors
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "mobile":
		return "must be a valid mobile number"
	case "uuid":
		return "must be a valid token"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
