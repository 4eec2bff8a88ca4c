package scraper

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
)

const maxPageBytes = 4 << 20

// Fetcher returns the HTML of a posting page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

func httpHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

// CollyFetcher downloads pages with a fresh colly collector per call.
type CollyFetcher struct {
	userAgent string
	timeout   time.Duration
}

func NewCollyFetcher(userAgent string, timeout time.Duration) *CollyFetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &CollyFetcher{userAgent: userAgent, timeout: timeout}
}

func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var c *colly.Collector
	if host := hostFromURL(pageURL); host != "" {
		c = colly.NewCollector(colly.AllowedDomains(host), colly.MaxBodySize(maxPageBytes))
	} else {
		c = colly.NewCollector(colly.MaxBodySize(maxPageBytes))
	}
	c.SetRequestTimeout(f.timeout)

	var body []byte
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		for k, v := range httpHeaders(f.userAgent) {
			r.Headers.Set(k, v)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			reqErr = fmt.Errorf("fetch %s: status %d: %w", pageURL, r.StatusCode, err)
			return
		}
		reqErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrNoPosting
	}
	return body, nil
}

// HeadlessFetcher renders the page in headless Chrome, for postings that
// are built client-side.
type HeadlessFetcher struct {
	userAgent string
	timeout   time.Duration
}

func NewHeadlessFetcher(userAgent string, timeout time.Duration) *HeadlessFetcher {
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &HeadlessFetcher{userAgent: userAgent, timeout: timeout}
}

func (f *HeadlessFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(f.userAgent),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, f.timeout)
	defer reqCancel()

	var html string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" {
		return nil, ErrNoPosting
	}
	return []byte(html), nil
}

func hostFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return u.Host
}
