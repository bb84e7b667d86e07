// Package scraper fetches a product page and collects candidate image URLs
// for the email generation pipeline.
package scraper

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ignite/campaign-studio/internal/pkg/apperr"
)

// Config holds scraper settings.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Scraper fetches pages and extracts image sources.
type Scraper struct {
	userAgent  string
	httpClient HTTPDoer
}

// New creates a scraper with the given configuration.
func New(cfg Config) *Scraper {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "campaign-studio/1.0"
	}
	return &Scraper{
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (s *Scraper) SetHTTPClient(client HTTPDoer) {
	s.httpClient = client
}

// ScrapeImages fetches pageURL and returns every <img> source on the page
// as an absolute URL, in document order, without deduplication. Sources
// whose raw attribute value contains "logo" or "icon" are dropped before
// URL resolution, so the filter sees the value exactly as authored.
func (s *Scraper) ScrapeImages(ctx context.Context, pageURL string) ([]string, error) {
	if strings.TrimSpace(pageURL) == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "url must be provided")
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "url is not parseable", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "failed to build request", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, "failed to fetch page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.Newf(apperr.KindFetch, "failed to fetch page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, "failed to parse page HTML", err)
	}

	images := []string{}
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}
		// Filter on the raw attribute value, case-sensitive.
		if strings.Contains(src, "logo") || strings.Contains(src, "icon") {
			return
		}
		ref, err := url.Parse(src)
		if err != nil {
			return
		}
		images = append(images, base.ResolveReference(ref).String())
	})

	return images, nil
}
