package store

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateURL checks that raw is an absolute http or https URL with a host.
// It does NOT check uniqueness.
func ValidateURL(raw string) error {
	if raw == "" || validate.Var(raw, "http_url") != nil {
		return ErrInvalidURL
	}
	return nil
}
