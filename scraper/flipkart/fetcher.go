package flipkart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"flipkart-scraper/config"
	"flipkart-scraper/utils"
)

// containerSelector marks one product tile on a results page. Flipkart tags
// every tile with a data-id attribute; ads and spacers reuse it too, which
// the extractor filters out later.
const containerSelector = `[data-id]`

// ErrWaitTimeout reports that no listing container appeared within the wait
// budget. Callers treat it as an empty page, not a failure.
var ErrWaitTimeout = errors.New("timed out waiting for listing containers")

// Fetcher renders a results page and returns its markup.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
	Close()
}

// ChromeFetcher drives one headless Chrome session for the whole run.
// Each Fetch opens a fresh tab, navigates, waits for a listing container
// to be present, and returns the rendered document.
type ChromeFetcher struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	waitTimeout time.Duration
}

// NewChromeFetcher launches the browser session. ctx should be the process
// signal context so an interrupt cancels in-flight navigation.
func NewChromeFetcher(ctx context.Context, cfg config.ScraperConfig) *ChromeFetcher {
	utils.Info("Launching Chrome browser...")
	allocCtx, allocCancel := chromedp.NewExecAllocator(
		ctx,
		utils.ChromeOpts(cfg.Headless, cfg.UserAgent)...,
	)
	utils.Success("Browser ready")
	return &ChromeFetcher{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		waitTimeout: cfg.WaitTimeout,
	}
}

func (f *ChromeFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	tabCtx, tabCancel := chromedp.NewContext(f.allocCtx)
	defer tabCancel()

	waitCtx, cancel := context.WithTimeout(tabCtx, f.waitTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(waitCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(containerSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", ErrWaitTimeout, pageURL)
		}
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	return html, nil
}

// Close tears the browser session down. Safe to call on every exit path.
func (f *ChromeFetcher) Close() {
	utils.Info("Closing browser...")
	f.allocCancel()
}
