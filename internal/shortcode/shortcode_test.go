package shortcode_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joestump/joe-bookmarks/internal/shortcode"
)

func never(context.Context, string) (bool, error) { return false, nil }

func TestGenerate_DefaultLength(t *testing.T) {
	g := shortcode.New()
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		code, err := g.Generate(ctx, never)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(code) != 3 {
			t.Fatalf("len(%q) = %d, want 3", code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(shortcode.Alphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	g := shortcode.New(shortcode.WithAttempts(5))
	calls := 0
	code, err := g.Generate(context.Background(), func(_ context.Context, code string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if calls != 3 {
		t.Errorf("lookups = %d, want 3", calls)
	}
	if len(code) != 3 {
		t.Errorf("len(%q) = %d, want 3", code, len(code))
	}
}

func TestGenerate_FallsBackToLongerCodes(t *testing.T) {
	g := shortcode.New(shortcode.WithLength(3), shortcode.WithMaxLength(5), shortcode.WithAttempts(4))

	// Every 3-character code is taken.
	code, err := g.Generate(context.Background(), func(_ context.Context, code string) (bool, error) {
		return len(code) == 3, nil
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(code) != 4 {
		t.Errorf("len(%q) = %d, want 4", code, len(code))
	}
}

func TestGenerate_Exhausted(t *testing.T) {
	g := shortcode.New(shortcode.WithLength(2), shortcode.WithMaxLength(3), shortcode.WithAttempts(3))
	calls := 0
	_, err := g.Generate(context.Background(), func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	})
	if !errors.Is(err, shortcode.ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
	if calls != 6 {
		t.Errorf("lookups = %d, want 6", calls)
	}
}

func TestGenerate_LookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := shortcode.New().Generate(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestGenerate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := shortcode.New().Generate(ctx, never)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestGenerate_RandomSourceError(t *testing.T) {
	g := shortcode.New(shortcode.WithRandom(strings.NewReader("")))
	if _, err := g.Generate(context.Background(), never); err == nil {
		t.Fatal("expected error from empty random source")
	}
}

func TestNew_ClampsOptions(t *testing.T) {
	g := shortcode.New(shortcode.WithLength(0), shortcode.WithMaxLength(1), shortcode.WithAttempts(-1))
	if g.Length() != shortcode.DefaultLength {
		t.Errorf("Length() = %d, want %d", g.Length(), shortcode.DefaultLength)
	}
	if g.MaxLength() != shortcode.DefaultLength {
		t.Errorf("MaxLength() = %d, want %d", g.MaxLength(), shortcode.DefaultLength)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "lowercase", code: "abc"},
		{name: "mixed case and digits", code: "aZ9"},
		{name: "max length", code: "abcdef"},
		{name: "empty", code: "", wantErr: true},
		{name: "too long", code: "abcdefg", wantErr: true},
		{name: "hyphen", code: "a-b", wantErr: true},
		{name: "underscore", code: "a_b", wantErr: true},
		{name: "non-ascii", code: "café", wantErr: true},
		{name: "path", code: "a/b", wantErr: true},
	}

	g := shortcode.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Validate(tt.code)
			if tt.wantErr && !errors.Is(err, shortcode.ErrInvalidCode) {
				t.Errorf("Validate(%q) = %v, want ErrInvalidCode", tt.code, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate(%q) = %v, want nil", tt.code, err)
			}
		})
	}
}
