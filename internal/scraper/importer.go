package scraper

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"job-tracker/internal/pkg/logging"

	"golang.org/x/time/rate"
)

var (
	ErrInvalidURL     = errors.New("posting url must be an absolute http(s) url")
	ErrHostNotAllowed = errors.New("posting host is not allowed")
	ErrNoPosting      = errors.New("no job posting found at url")
)

// Importer fetches and parses posting pages. Outbound fetches share one
// rate limiter.
type Importer struct {
	fetcher Fetcher
	limiter *rate.Limiter
	allowed map[string]struct{}
	logger  *logging.Logger
}

func NewImporter(fetcher Fetcher, ratePerSec float64, burst int, allowedHosts []string, logger *logging.Logger) *Importer {
	var lim *rate.Limiter
	if ratePerSec > 0 {
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}
	var allowed map[string]struct{}
	if len(allowedHosts) > 0 {
		allowed = make(map[string]struct{}, len(allowedHosts))
		for _, h := range allowedHosts {
			allowed[strings.ToLower(h)] = struct{}{}
		}
	}
	return &Importer{fetcher: fetcher, limiter: lim, allowed: allowed, logger: logger}
}

func (i *Importer) Import(ctx context.Context, rawURL string) (Posting, error) {
	u, err := checkURL(rawURL)
	if err != nil {
		return Posting{}, err
	}
	if i.allowed != nil {
		host := strings.ToLower(hostFromURL(u))
		if _, ok := i.allowed[host]; !ok {
			return Posting{}, ErrHostNotAllowed
		}
	}
	if i.limiter != nil {
		if err := i.limiter.Wait(ctx); err != nil {
			return Posting{}, err
		}
	}

	html, err := i.fetcher.Fetch(ctx, u)
	if err != nil {
		i.logger.Warn("posting fetch failed", "url", u, "error", err)
		return Posting{}, err
	}
	return ParsePosting(u, html)
}

func checkURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	u.Fragment = ""
	return u.String(), nil
}
