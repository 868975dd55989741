package order

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return &domain.ValidationError{Fields: map[string]string{"body": err.Error()}}
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fieldPath(fe)] = validationMessage(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

// fieldPath drops the root struct name: "customer.email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "uuid":
		return "must be a uuid"
	}
	return "is invalid"
}
