package models

import (
	"strings"
	"time"
)

// Product is one extracted search-result record. Title is the only
// required field; ImageURL and Price may be empty independently.
type Product struct {
	ID        int64
	Title     string
	ImageURL  string
	Price     string
	CreatedAt time.Time
}

// Valid reports whether the record meets the minimum-field policy:
// a non-empty title after trimming. Image and price are never checked.
func (p Product) Valid() bool {
	return strings.TrimSpace(p.Title) != ""
}

// RunResult aggregates one scrape invocation.
type RunResult struct {
	Scraped int
	Saved   int
	Total   int64
}

// DBStats summarises the product_info table.
type DBStats struct {
	Total     int64
	WithPrice int64
	WithImage int64
}
