package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StructValidator plugs go-playground/validator into fiber's binder so
// `validate` tags on request bodies are enforced on Bind().
type StructValidator struct {
	validate *validator.Validate
}

func NewStructValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &StructValidator{validate: v}
}

func (s *StructValidator) Validate(out any) error {
	return s.validate.Struct(out)
}

// FieldError returns the first failing field and a readable message.
func FieldError(err error) (string, string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", "", false
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field, field + " is required", true
	case "email":
		return field, field + " must be a valid email", true
	case "url":
		return field, field + " must be a valid url", true
	case "min":
		return field, field + " must be at least " + fe.Param() + " characters", true
	case "oneof":
		return field, field + " must be one of " + fe.Param(), true
	default:
		return field, field + " is invalid", true
	}
}
