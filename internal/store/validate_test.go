package store

import (
	"errors"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "https", url: "https://example.com", wantErr: nil},
		{name: "http with path and query", url: "http://example.com/a/b?c=d#e", wantErr: nil},
		{name: "with port", url: "http://localhost:8080/x", wantErr: nil},

		{name: "empty", url: "", wantErr: ErrInvalidURL},
		{name: "no scheme", url: "example.com", wantErr: ErrInvalidURL},
		{name: "plain words", url: "not a url", wantErr: ErrInvalidURL},
		{name: "scheme only", url: "https://", wantErr: ErrInvalidURL},
		{name: "ftp", url: "ftp://example.com/file", wantErr: ErrInvalidURL},
		{name: "mailto", url: "mailto:alice@example.com", wantErr: ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	p := newPage(1, 10, 25)
	if p.Pages != 3 || !p.HasNext || p.HasPrev || p.PrevPage != nil || p.NextPage == nil || *p.NextPage != 2 {
		t.Errorf("page 1: unexpected meta %+v", p)
	}

	p = newPage(3, 10, 25)
	if p.HasNext || !p.HasPrev || p.NextPage != nil || *p.PrevPage != 2 {
		t.Errorf("page 3: unexpected meta %+v", p)
	}

	p = newPage(1, 10, 0)
	if p.Pages != 0 || p.HasNext || p.HasPrev {
		t.Errorf("empty: unexpected meta %+v", p)
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, perPage         int
		wantPage, wantPerPage int
	}{
		{0, 0, 1, DefaultPerPage},
		{-3, -1, 1, DefaultPerPage},
		{2, 25, 2, 25},
		{1, 1000, 1, MaxPerPage},
	}
	for _, tt := range tests {
		page, perPage := normalizePage(tt.page, tt.perPage)
		if page != tt.wantPage || perPage != tt.wantPerPage {
			t.Errorf("normalizePage(%d, %d) = %d, %d; want %d, %d",
				tt.page, tt.perPage, page, perPage, tt.wantPage, tt.wantPerPage)
		}
	}
}
