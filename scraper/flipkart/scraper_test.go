package flipkart

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipkart-scraper/config"
)

// stubFetcher serves canned pages keyed by URL and records every request.
type stubFetcher struct {
	pages    map[string]string
	errs     map[string]error
	requests []string
	closed   bool
}

func (f *stubFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	f.requests = append(f.requests, pageURL)
	if err, ok := f.errs[pageURL]; ok {
		return "", err
	}
	html, ok := f.pages[pageURL]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrWaitTimeout, pageURL)
	}
	return html, nil
}

func (f *stubFetcher) Close() { f.closed = true }

func testConfig() config.ScraperConfig {
	return config.ScraperConfig{
		BaseURL:     "https://www.flipkart.com",
		MaxPages:    3,
		PageDelay:   0,
		WaitTimeout: time.Second,
	}
}

func tile(title, price, img string) string {
	inner := ""
	if title != "" {
		inner += `<div class="KzDlHZ">` + title + `</div>`
	}
	if price != "" {
		inner += `<div class="Nx9bqj">` + price + `</div>`
	}
	if img != "" {
		inner += `<img src="` + img + `">`
	}
	return `<div data-id="MOB` + title + `">` + inner + `</div>`
}

func page(tiles ...string) string {
	body := ""
	for _, t := range tiles {
		body += t
	}
	return `<html><body>` + body + `</body></html>`
}

func searchPageURL(keyword string, n int) string {
	u := "https://www.flipkart.com/search?q=" + keyword
	if n > 1 {
		u += fmt.Sprintf("&page=%d", n)
	}
	return u
}

func TestScrapePage(t *testing.T) {
	t.Run("collects validated records in document order", func(t *testing.T) {
		fetcher := &stubFetcher{pages: map[string]string{
			"https://x": page(
				tile("First", "₹100", ""),
				tile("", "₹200", "https://img/ad.jpg"), // ad tile, no title
				tile("Second", "", "/img/2.jpg"),
			),
		}}
		s := NewScraper(testConfig(), fetcher)

		products := s.ScrapePage(context.Background(), "https://x")
		require.Len(t, products, 2)
		assert.Equal(t, "First", products[0].Title)
		assert.Equal(t, "₹100", products[0].Price)
		assert.Equal(t, "Second", products[1].Title)
		assert.Equal(t, "https://www.flipkart.com/img/2.jpg", products[1].ImageURL)
	})

	t.Run("wait timeout yields zero records", func(t *testing.T) {
		fetcher := &stubFetcher{}
		s := NewScraper(testConfig(), fetcher)

		products := s.ScrapePage(context.Background(), "https://missing")
		assert.Empty(t, products)
	})

	t.Run("page fault yields zero records without propagating", func(t *testing.T) {
		fetcher := &stubFetcher{errs: map[string]error{
			"https://broken": errors.New("net::ERR_CONNECTION_RESET"),
		}}
		s := NewScraper(testConfig(), fetcher)

		products := s.ScrapePage(context.Background(), "https://broken")
		assert.Empty(t, products)
	})
}

func TestSearch_StopOnEmpty(t *testing.T) {
	// Page 1 has a product, page 2 is past the end of results: page 3
	// must never be requested and page 1's records are kept.
	fetcher := &stubFetcher{pages: map[string]string{
		searchPageURL("x", 1): page(tile("Only One", "₹99", "")),
		searchPageURL("x", 2): page(),
		searchPageURL("x", 3): page(tile("Unreachable", "", "")),
	}}
	s := NewScraper(testConfig(), fetcher)

	products := s.Search(context.Background(), "x", 3)
	require.Len(t, products, 1)
	assert.Equal(t, "Only One", products[0].Title)
	assert.Equal(t, []string{searchPageURL("x", 1), searchPageURL("x", 2)}, fetcher.requests)
}

func TestSearch_MaxPagesClamped(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{}}
	for n := 1; n <= 10; n++ {
		fetcher.pages[searchPageURL("laptop", n)] = page(tile(fmt.Sprintf("P%d", n), "", ""))
	}
	s := NewScraper(testConfig(), fetcher)

	products := s.Search(context.Background(), "laptop", 10)
	assert.Len(t, products, 3)
	assert.Len(t, fetcher.requests, 3)
}

func TestSearch_AggregatesAcrossPages(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		searchPageURL("tv", 1): page(tile("A", "", ""), tile("B", "", "")),
		searchPageURL("tv", 2): page(tile("C", "", "")),
		searchPageURL("tv", 3): page(tile("D", "", "")),
	}}
	s := NewScraper(testConfig(), fetcher)

	products := s.Search(context.Background(), "tv", 3)
	require.Len(t, products, 4)
	// Page order then document order.
	titles := []string{products[0].Title, products[1].Title, products[2].Title, products[3].Title}
	assert.Equal(t, []string{"A", "B", "C", "D"}, titles)
}

func TestSearch_InterPageDelay(t *testing.T) {
	cfg := testConfig()
	cfg.PageDelay = 60 * time.Millisecond

	t.Run("waits between pages", func(t *testing.T) {
		fetcher := &stubFetcher{pages: map[string]string{
			searchPageURL("x", 1): page(tile("A", "", "")),
			searchPageURL("x", 2): page(tile("B", "", "")),
		}}
		s := NewScraper(cfg, fetcher)

		start := time.Now()
		products := s.Search(context.Background(), "x", 2)
		elapsed := time.Since(start)

		require.Len(t, products, 2)
		assert.GreaterOrEqual(t, elapsed, cfg.PageDelay)
	})

	t.Run("no trailing delay after the final page", func(t *testing.T) {
		fetcher := &stubFetcher{pages: map[string]string{
			searchPageURL("x", 1): page(tile("A", "", "")),
		}}
		s := NewScraper(cfg, fetcher)

		start := time.Now()
		products := s.Search(context.Background(), "x", 1)
		elapsed := time.Since(start)

		require.Len(t, products, 1)
		assert.Less(t, elapsed, cfg.PageDelay)
	})
}

func TestSearch_CancelledContextStopsPagination(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		searchPageURL("x", 1): page(tile("A", "", "")),
	}}
	s := NewScraper(testConfig(), fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	products := s.Search(ctx, "x", 3)
	assert.Empty(t, products)
	assert.Empty(t, fetcher.requests)
}

func TestSearchURL(t *testing.T) {
	s := NewScraper(testConfig(), &stubFetcher{})

	assert.Equal(t, "https://www.flipkart.com/search?q=smartphone", s.searchURL("smartphone", 1))
	assert.Equal(t, "https://www.flipkart.com/search?q=smartphone&page=2", s.searchURL("smartphone", 2))
	assert.Equal(t, "https://www.flipkart.com/search?q=gaming+laptop", s.searchURL("gaming laptop", 1))
}
