package utils

import (
	"github.com/chromedp/chromedp"
)

// ChromeOpts returns the browser launch options for a scrape session.
//
// The flags are environment adaptation only (CI containers have no
// sandbox, no GPU and a small /dev/shm); none of them change page
// behaviour. The window size and User-Agent make the session look like
// an ordinary desktop browser.
func ChromeOpts(headless bool, userAgent string) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1920, 1080),
	}

	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}

	if headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	}

	return opts
}
