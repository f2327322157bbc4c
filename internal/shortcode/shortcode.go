// Package shortcode generates the short codes that identify bookmarks on the
// public redirect route.
//
// Codes are drawn uniformly from a 62-symbol alphabet. A candidate is checked
// against the store through an injected lookup and redrawn on collision. Each
// length gets a bounded number of draws; once they are used up the generator
// moves to the next length, so a saturated code space degrades into longer
// codes instead of an endless loop.
package shortcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// Alphabet holds the symbols a code may contain: ASCII letters then digits.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	DefaultLength    = 3
	DefaultMaxLength = 6
	DefaultAttempts  = 10
)

// ErrExhausted is returned when no free code was found at any allowed length.
var ErrExhausted = errors.New("short code space exhausted")

// reserved codes would be shadowed by other root routes.
var reserved = map[string]bool{
	"api":     true,
	"metrics": true,
}

// LookupFunc reports whether code is already assigned to a bookmark.
type LookupFunc func(ctx context.Context, code string) (bool, error)

// Generator draws unique short codes.
type Generator struct {
	length    int
	maxLength int
	attempts  int
	random    io.Reader
}

// Option configures a Generator.
type Option func(*Generator)

// WithLength sets the preferred code length.
func WithLength(n int) Option {
	return func(g *Generator) { g.length = n }
}

// WithMaxLength sets the longest length the generator may fall back to.
func WithMaxLength(n int) Option {
	return func(g *Generator) { g.maxLength = n }
}

// WithAttempts sets how many candidates are drawn per length.
func WithAttempts(n int) Option {
	return func(g *Generator) { g.attempts = n }
}

// WithRandom replaces crypto/rand as the entropy source.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) { g.random = r }
}

// New returns a Generator producing DefaultLength codes unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		length:    DefaultLength,
		maxLength: DefaultMaxLength,
		attempts:  DefaultAttempts,
		random:    rand.Reader,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.length < 1 {
		g.length = DefaultLength
	}
	if g.maxLength < g.length {
		g.maxLength = g.length
	}
	if g.attempts < 1 {
		g.attempts = DefaultAttempts
	}
	return g
}

// Length returns the preferred code length.
func (g *Generator) Length() int { return g.length }

// MaxLength returns the longest code the generator can produce.
func (g *Generator) MaxLength() int { return g.maxLength }

// Generate returns a code for which exists reports false.
func (g *Generator) Generate(ctx context.Context, exists LookupFunc) (string, error) {
	for n := g.length; n <= g.maxLength; n++ {
		for i := 0; i < g.attempts; i++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			code, err := g.draw(n)
			if err != nil {
				return "", fmt.Errorf("draw short code: %w", err)
			}
			if reserved[code] {
				continue
			}
			taken, err := exists(ctx, code)
			if err != nil {
				return "", fmt.Errorf("look up short code: %w", err)
			}
			if !taken {
				return code, nil
			}
		}
	}
	return "", ErrExhausted
}

func (g *Generator) draw(n int) (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(g.random, max)
		if err != nil {
			return "", err
		}
		b[i] = Alphabet[idx.Int64()]
	}
	return string(b), nil
}
