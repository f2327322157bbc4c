package shortcode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCode is returned when a string cannot be a short code.
var ErrInvalidCode = errors.New("short code must contain only ASCII letters and digits")

// Validate checks that code is non-empty, at most maxLength long, and drawn
// from Alphabet. It does NOT check existence; that is the store's job.
func Validate(code string, maxLength int) error {
	if code == "" {
		return ErrInvalidCode
	}
	if len(code) > maxLength {
		return fmt.Errorf("%w: longer than %d", ErrInvalidCode, maxLength)
	}
	for _, r := range code {
		if !strings.ContainsRune(Alphabet, r) {
			return ErrInvalidCode
		}
	}
	return nil
}

// Validate checks code against the generator's maximum length.
func (g *Generator) Validate(code string) error {
	return Validate(code, g.maxLength)
}
