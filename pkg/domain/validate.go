package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Validate checks the event against the record shape and returns the first
// failing field as a ValidationError.
func (e *NewEvent) Validate() error {
	if e == nil {
		return ValidationError{Field: "body", Message: "event is required"}
	}

	if err := validate.Struct(e); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return toValidationError(verrs[0])
		}
		return fmt.Errorf("failed to validate event: %w", err)
	}

	if e.MinGroup != nil && e.MaxGroup != nil && *e.MinGroup > *e.MaxGroup {
		return ValidationError{Field: "maxGroup", Message: "maxGroup must be greater than or equal to minGroup"}
	}

	if e.PriceRange != "" {
		if want := PriceRangeFor(e.PriceBase); e.PriceRange != want {
			return ValidationError{
				Field:   "priceRange",
				Message: fmt.Sprintf("priceRange %q does not match priceBase %d (expected %q)", e.PriceRange, e.PriceBase, want),
			}
		}
	}

	return nil
}

func toValidationError(fe validator.FieldError) ValidationError {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var msg string
	switch fe.Tag() {
	case "notblank", "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		msg = fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		msg = fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		msg = fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "url":
		msg = fmt.Sprintf("%s must be a valid URL", fe.Field())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}

	return ValidationError{Field: field, Message: msg}
}
