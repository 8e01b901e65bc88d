// internal/app/system/inputval/inputval.go

// Package inputval validates user-entered form values. Struct-level
// validation runs through go-playground/validator; the standalone
// helpers cover the one-off checks handlers do before touching a store.
package inputval

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Error messages name the form label, not the Go field.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		label := strings.SplitN(fld.Tag.Get("label"), ",", 2)[0]
		if label == "" {
			return fld.Name
		}
		return label
	})
	v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		return IsValidTimeOfDay(fl.Field().String())
	})
	return v
}

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the failures from one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first failure message, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Validate checks v's `validate` tags and returns per-field messages.
func Validate(v any) Result {
	err := validate.Struct(v)
	if err == nil {
		return Result{}
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Errors: []FieldError{{Message: err.Error()}}}
	}
	var res Result
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return res
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "email":
		return fe.Field() + " must be a valid email address."
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters."
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters."
	case "oneof":
		return fe.Field() + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "gte":
		return fe.Field() + " must be at least " + fe.Param() + "."
	case "timeofday":
		return fe.Field() + " must be a time like 07:30."
	default:
		return fe.Field() + " is invalid."
	}
}
