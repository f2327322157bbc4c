package store

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page describes one window of an owner's bookmark list.
type Page struct {
	Page     int
	PerPage  int
	Pages    int
	Total    int
	PrevPage *int
	NextPage *int
	HasNext  bool
	HasPrev  bool
}

// normalizePage clamps page and perPage to their allowed ranges.
func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func newPage(page, perPage, total int) Page {
	p := Page{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   (total + perPage - 1) / perPage,
	}
	p.HasPrev = page > 1
	p.HasNext = page < p.Pages
	if p.HasPrev {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNext {
		next := page + 1
		p.NextPage = &next
	}
	return p
}
