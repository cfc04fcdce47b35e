// Package validate wraps go-playground/validator with the console's custom
// rules. Validation runs client-side before any network call so malformed
// input never reaches the wire.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/upstic/admin-console/pkg/errors"
)

var (
	phoneRegex     = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
	subdomainRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{1,61}[a-z0-9])?$`)
)

var v = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New()
	vd.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	vd.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
		return subdomainRegex.MatchString(fl.Field().String())
	})
	return vd
}

// Struct validates req and returns a validation-classified APIError naming
// the first failing field.
func Struct(req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return apierrors.NewValidation(message(errs[0]))
	}
	return apierrors.NewValidation(err.Error())
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("invalid %s format", strings.ToLower(field))
	case "phone":
		return fmt.Sprintf("invalid %s format", strings.ToLower(field))
	case "subdomain":
		return fmt.Sprintf("invalid subdomain format for %s: use only lowercase letters, numbers, and hyphens, starting and ending with a letter or number", strings.ToLower(field))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Subdomain reports whether s is a valid agency website slug.
func Subdomain(s string) bool {
	return subdomainRegex.MatchString(s)
}

// Phone reports whether s is a plausible phone number.
func Phone(s string) bool {
	return phoneRegex.MatchString(s)
}
