package api

import (
	"time"

	"github.com/joestump/joe-bookmarks/internal/store"
)

// --- Auth types ---

// RegisterRequest is the request body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type LoginUser struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	User LoginUser `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// --- Bookmark types ---

// BookmarkRequest is the request body for creating and updating bookmarks.
// Update replaces both fields.
type BookmarkRequest struct {
	URL  string `json:"url"`
	Body string `json:"body"`
}

// BookmarkResponse is the JSON representation of a single bookmark.
type BookmarkResponse struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	URL       string    `json:"url"`
	ShortCode string    `json:"short_code"`
	Visits    int64     `json:"visits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageMeta mirrors store.Page. PrevPage and NextPage are null at the ends.
type PageMeta struct {
	Page     int  `json:"page"`
	PerPage  int  `json:"per_page"`
	Pages    int  `json:"pages"`
	Total    int  `json:"total"`
	PrevPage *int `json:"prev_page"`
	NextPage *int `json:"next_page"`
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
}

type BookmarkListResponse struct {
	Data []BookmarkResponse `json:"data"`
	Meta PageMeta           `json:"meta"`
}

type StatResponse struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	ShortCode string `json:"short_code"`
	Visits    int64  `json:"visits"`
}

type StatsResponse struct {
	Data []StatResponse `json:"data"`
}

func toBookmarkResponse(b *store.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:        b.ID,
		Body:      b.Body,
		URL:       b.URL,
		ShortCode: b.ShortCode,
		Visits:    b.Visits,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toPageMeta(p store.Page) PageMeta {
	return PageMeta{
		Page:     p.Page,
		PerPage:  p.PerPage,
		Pages:    p.Pages,
		Total:    p.Total,
		PrevPage: p.PrevPage,
		NextPage: p.NextPage,
		HasNext:  p.HasNext,
		HasPrev:  p.HasPrev,
	}
}
