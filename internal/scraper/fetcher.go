package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// FetcherConfig holds shared page-fetching settings.
type FetcherConfig struct {
	UserAgent string
	Timeout   time.Duration
	// RequestDelay is slept between successive page fetches so a source
	// site never sees a burst of requests.
	RequestDelay time.Duration
}

// Fetcher retrieves listing pages and parses them into goquery documents.
// It is shared by all site scrapers.
type Fetcher struct {
	httpClient *http.Client
	config     FetcherConfig
	logger     zerolog.Logger
	fetched    bool
}

// NewFetcher creates a page fetcher.
func NewFetcher(cfg FetcherConfig, logger zerolog.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logger.With().Str("component", "fetcher").Logger(),
	}
}

// FetchDocument GETs a URL and parses the response body as HTML. The
// politeness delay is applied before every fetch after the first.
func (f *Fetcher) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if f.fetched && f.config.RequestDelay > 0 {
		select {
		case <-time.After(f.config.RequestDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.fetched = true

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	f.logger.Debug().Str("url", pageURL).Msg("Fetching page")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// DateForDayIndex resolves a listing page's day index (0 = today) to a
// concrete YYYY-MM-DD date.
func DateForDayIndex(dayIndex int) string {
	return time.Now().AddDate(0, 0, dayIndex).Format("2006-01-02")
}

// AbsoluteURL prefixes base-relative links with the source's base URL.
func AbsoluteURL(baseURL, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return baseURL + href
}
