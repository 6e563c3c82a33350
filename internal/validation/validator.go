// Package validation decodes request input and checks it against declared
// rules. Every violated field is reported, not just the first one.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"

	"couple-journal-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

type enumeration interface {
	Valid() bool
	Values() []string
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enumeration)
		return ok && e.Valid()
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("iana_tz", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if name == "" || strings.EqualFold(name, "local") {
			return false
		}
		_, err := time.LoadLocation(name)
		return err == nil
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		n := field.Interface().(NullableString)
		if !n.Set || n.Null {
			return nil
		}
		return n.Value
	}, NullableString{})

	return v
}

// Struct validates a DTO and returns a VALIDATION_FAILED error listing
// every violation.
func Struct(dto any) error {
	fields, err := fieldErrors(dto)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	return apperr.Validation(fields)
}

func fieldErrors(dto any) ([]apperr.FieldError, error) {
	err := validate.Struct(dto)
	if err == nil {
		return nil, nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, fmt.Errorf("failed to validate: %w", err)
	}
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return fields, nil
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be %s %s characters", bound, fe.Param())
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("must contain %s %s items", bound, fe.Param())
		default:
			return fmt.Sprintf("must be %s %s", bound, fe.Param())
		}
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email"
	case "enum":
		if e, ok := fe.Value().(enumeration); ok {
			return "must be one of: " + strings.Join(e.Values(), ", ")
		}
		return "is not an allowed value"
	case "isodate":
		return "must be a valid date"
	case "iana_tz":
		return "must be a valid IANA timezone"
	case "startswith":
		return "must start with " + fe.Param()
	default:
		return "is invalid"
	}
}
