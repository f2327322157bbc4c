package api

import (
	"net/http"
	"strconv"
)

// parsePage extracts page and per_page from the query string. Missing or
// malformed values yield zero, which the store replaces with its defaults.
func parsePage(r *http.Request) (page, perPage int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	perPage, _ = strconv.Atoi(q.Get("per_page"))
	return page, perPage
}
