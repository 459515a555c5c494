package services

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports per-field validation failures. Handlers render it
// as a 400 with the field map.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// newValidator builds a validator that reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationError converts validator errors into a field→message map.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = fmt.Sprintf("%s is required.", fe.Field())
		case "max":
			fields[fe.Field()] = fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
		case "gte":
			fields[fe.Field()] = fmt.Sprintf("%s must be at least %s.", fe.Field(), fe.Param())
		case "lte":
			fields[fe.Field()] = fmt.Sprintf("%s must be at most %s.", fe.Field(), fe.Param())
		default:
			fields[fe.Field()] = fmt.Sprintf("%s is invalid.", fe.Field())
		}
	}

	return &ValidationError{Fields: fields}
}
