package flipkart

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"flipkart-scraper/models"
)

// fieldStrategy is one way of locating a field inside a listing container.
// Flipkart A/B-tests its result layouts, so each field carries an ordered
// chain of strategies; the first one that yields non-empty text wins and
// the rest are never consulted. A new layout variant is a new entry here,
// not new control flow.
type fieldStrategy struct {
	tag   string
	class string
}

var titleStrategies = []fieldStrategy{
	{"div", "KzDlHZ"},
	{"a", "wjcEIp"},
	{"a", "WKTcLC"},
	{"div", "_4rR01T"}, // legacy grid layout
}

var priceStrategies = []fieldStrategy{
	{"div", "Nx9bqj"},
	{"div", "_30jeq3"},
	{"div", "_1_WHN1"},
}

func firstMatch(sel *goquery.Selection, chain []fieldStrategy) string {
	for _, s := range chain {
		text := strings.TrimSpace(sel.Find(s.tag + "." + s.class).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// ExtractProduct probes one listing container. It returns false when no
// title strategy matches — ad banners and layout spacers share the data-id
// marker with real products and are expected to yield nothing.
func ExtractProduct(sel *goquery.Selection, baseURL string) (models.Product, bool) {
	title := firstMatch(sel, titleStrategies)
	if title == "" {
		return models.Product{}, false
	}

	return models.Product{
		Title:    title,
		ImageURL: extractImageURL(sel, baseURL),
		Price:    firstMatch(sel, priceStrategies),
	}, true
}

// extractImageURL takes the first image in the container, preferring its
// src attribute over the lazy-load data-src, and resolves relative values
// against the page's base URL.
func extractImageURL(sel *goquery.Selection, baseURL string) string {
	img := sel.Find("img").First()
	src, ok := img.Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		src, ok = img.Attr("data-src")
		if !ok || strings.TrimSpace(src) == "" {
			return ""
		}
	}
	src = strings.TrimSpace(src)

	if strings.HasPrefix(src, "http") {
		return src
	}
	return resolveURL(baseURL, src)
}

func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}
