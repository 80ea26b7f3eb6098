package apperror

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// formatFieldName turns "manager_comment" or "managerComment" into "Manager Comment".
func formatFieldName(s string) string {
	s = camelBoundary.ReplaceAllString(s, "${1} ${2}")
	s = strings.ReplaceAll(s, "_", " ")

	caser := cases.Title(language.English)
	return caser.String(s)
}

// FieldDetail names the request field that failed validation.
type FieldDetail struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// MapValidationError converts the first binding failure into a field-level AppError.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		appErr := fieldError(e)
		appErr.Details = FieldDetail{Field: e.Field(), Rule: e.Tag()}
		return appErr
	}

	return New(
		CodeValidation,
		"Invalid input",
		http.StatusBadRequest,
	)
}

func fieldError(e validator.FieldError) *AppError {
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required":
		return RequiredField(field)
	case "min":
		if e.Kind().String() == "string" {
			return FieldTooShort(field, e.Param())
		}
		return InvalidField(field)
	case "max":
		if e.Kind().String() == "string" {
			return FieldTooLong(field, e.Param())
		}
		return InvalidField(field)
	default:
		return InvalidField(field)
	}
}
