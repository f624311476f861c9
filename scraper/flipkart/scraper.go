package flipkart

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"flipkart-scraper/config"
	"flipkart-scraper/models"
	"flipkart-scraper/utils"
)

// Scraper walks search result pages for one keyword and extracts product
// records. It owns no resources itself; the fetcher session belongs to
// the caller.
type Scraper struct {
	cfg     config.ScraperConfig
	fetcher Fetcher
}

func NewScraper(cfg config.ScraperConfig, fetcher Fetcher) *Scraper {
	return &Scraper{cfg: cfg, fetcher: fetcher}
}

// ScrapePage fetches one results page and returns its validated records in
// document order. Faults never escape: a wait timeout or page-level error
// is logged and the page yields whatever was collected before it.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) []models.Product {
	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if errors.Is(err, ErrWaitTimeout) {
			utils.Warn("Timeout waiting for page to load: %s", pageURL)
		} else {
			utils.Error("Error scraping page %s: %v", pageURL, err)
		}
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		utils.Error("Error parsing page %s: %v", pageURL, err)
		return nil
	}

	var products []models.Product
	doc.Find("div" + containerSelector).Each(func(_ int, sel *goquery.Selection) {
		product, ok := ExtractProduct(sel, s.cfg.BaseURL)
		if !ok {
			return
		}
		if !product.Valid() {
			return
		}
		products = append(products, product)
	})

	return products
}

// Search iterates page numbers 1..maxPages for keyword and aggregates the
// records. It stops early when a page yields nothing (end of results) or
// when ctx is cancelled; whatever was collected so far is kept. maxPages
// is clamped to the hard ceiling regardless of what the caller asked for.
func (s *Scraper) Search(ctx context.Context, keyword string, maxPages int) []models.Product {
	if maxPages < 1 {
		maxPages = 1
	}
	if maxPages > config.MaxPagesCeiling {
		maxPages = config.MaxPagesCeiling
	}

	var all []models.Product
	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		if ctx.Err() != nil {
			utils.Warn("Search cancelled after %d products", len(all))
			break
		}

		utils.Info("Scraping page %d for keyword: %s", pageNum, keyword)
		products := s.ScrapePage(ctx, s.searchURL(keyword, pageNum))
		if len(products) == 0 {
			utils.Info("No products found on page %d", pageNum)
			break
		}

		utils.Success("Found %d products on page %d", len(products), pageNum)
		all = append(all, products...)

		if pageNum < maxPages {
			utils.Sleep(ctx, s.cfg.PageDelay)
		}
	}

	return all
}

func (s *Scraper) searchURL(keyword string, pageNum int) string {
	u := fmt.Sprintf("%s/search?q=%s", s.cfg.BaseURL, url.QueryEscape(keyword))
	if pageNum > 1 {
		u = fmt.Sprintf("%s&page=%d", u, pageNum)
	}
	return u
}
