package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"quiz-bank/internal/domain"

	"github.com/go-playground/validator/v10"
)

var httpURLPattern = regexp.MustCompile(`^(http|https)://[^ "]+$`)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return httpURLPattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// IsHTTPURL reports whether s is an absolute http(s) URL without spaces or quotes.
func IsHTTPURL(s string) bool {
	return httpURLPattern.MatchString(s)
}

// Struct validates s against its `validate` tags and returns a VALIDATION_ERROR
// DomainError listing every failed field, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewInternalError("validation failed", err)
	}

	fieldErrs := make(domain.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrs = append(fieldErrs, domain.FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return domain.NewError(domain.ErrValidation, fieldErrs[0].Message, fieldErrs).
		WithContext("errors", fieldErrs)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s entries", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "httpurl":
		return "Video solution URL must be a valid URL or null"
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
}
