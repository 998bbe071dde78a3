// Package validation wraps go-playground/validator and turns its field
// errors into ValidationError failures with readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "postauth/internal/errors"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. Field names in messages use json tags.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = instance.RegisterValidation("maxbytes", maxBytes)
	})
	return instance
}

// Struct validates s and returns an ErrValidation describing every failing field.
func Struct(s any) error {
	if err := Validator().Struct(s); err != nil {
		return FromError(err)
	}
	return nil
}

// FromError converts a validator error into an ErrValidation.
func FromError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.ErrValidation.Wrap(err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.ErrValidation.WithMessage("%s", strings.Join(msgs, "; ")).Wrap(err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min", "gte":
		return field + " must be " + bound("at least", fe)
	case "max", "lte":
		return field + " must be " + bound("at most", fe)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func bound(prefix string, fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s %s characters", prefix, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("%s %s items", prefix, fe.Param())
	default:
		return fmt.Sprintf("%s %s", prefix, fe.Param())
	}
}

// maxBytes bounds the encoded length of a string, as opposed to max which
// counts runes. bcrypt refuses input longer than 72 bytes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
