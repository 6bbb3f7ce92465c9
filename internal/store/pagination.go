package store

import "errors"

// ErrInvalidPage is returned by PageFor for page numbers below 1.
var ErrInvalidPage = errors.New("page must be at least 1")

// Page is an offset window over an ordered result.
type Page struct {
	Offset int
	Limit  int
}

// PageFor converts a 1-based page number and a size into an offset window.
// Sizes are clamped to 1..maxLimit, with def used for non-positive sizes.
func PageFor(page, size, def, maxLimit int) (Page, error) {
	if page < 1 {
		return Page{}, ErrInvalidPage
	}
	if size <= 0 {
		size = def
	}
	size = min(size, maxLimit)
	return Page{Offset: (page - 1) * size, Limit: size}, nil
}

// Number returns the 1-based page number.
func (p Page) Number() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}
