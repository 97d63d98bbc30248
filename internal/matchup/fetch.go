package matchup

import (
	"context"
	"fmt"
	"time"

	"mlb_pitchers/report/internal/client"
	"mlb_pitchers/report/internal/models"

	"github.com/chromedp/chromedp"
)

// Fetcher loads the probable-pitchers page
type Fetcher interface {
	FetchPage(ctx context.Context, pageURL string) ([]byte, error)
}

// HTTPFetcher reads the page with a plain GET
type HTTPFetcher struct {
	http *client.HTTP
}

// NewHTTPFetcher creates a GET based fetcher
func NewHTTPFetcher(h *client.HTTP) *HTTPFetcher {
	return &HTTPFetcher{http: h}
}

func (f *HTTPFetcher) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	resp, err := f.http.Get(ctx, "savant_probable_pitchers", pageURL, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ChromeFetcher renders the page in headless Chrome before reading it.
// Use it when the blocks are filled in client side.
type ChromeFetcher struct {
	timeout   time.Duration
	userAgent string
}

// NewChromeFetcher creates a headless Chrome fetcher
func NewChromeFetcher(timeout time.Duration, userAgent string) *ChromeFetcher {
	return &ChromeFetcher{timeout: timeout, userAgent: userAgent}
}

func (f *ChromeFetcher) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, f.timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &html),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp render of %s failed: %v: %w", pageURL, err, models.ErrUpstreamUnavailable)
	}
	return []byte(html), nil
}
