// Package omdb implements the OMDb API client used for movie enrichment.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/marquee/marquee/internal/showtime"
)

var (
	ErrAPIKeyMissing = errors.New("OMDb API key is not configured")
	ErrNotFound      = errors.New("not found on OMDb")
	ErrAPIError      = errors.New("OMDb API error")
)

// Config holds OMDb client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout int // seconds
}

// Client is an OMDb API client. Each lookup is a single attempt with a
// bounded timeout; retrying is left to a future run.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// NewClient creates a new OMDb client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://www.omdbapi.com/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "omdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "omdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// SearchByTitleYear looks up a movie by exact title and optional release
// year, returning the normalized enrichment subset. ErrNotFound means the
// service confirmed it has no match; any other error is a transport or
// API failure.
func (c *Client) SearchByTitleYear(ctx context.Context, title string, year *int) (*showtime.Enrichment, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := url.Values{}
	params.Set("apikey", c.config.APIKey)
	params.Set("t", title)
	params.Set("type", "movie")
	if year != nil {
		params.Set("y", strconv.Itoa(*year))
	}

	reqURL := fmt.Sprintf("%s?%s", c.config.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("title", title).Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var omdbResp Response
	if err := json.NewDecoder(resp.Body).Decode(&omdbResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if omdbResp.Response == "False" {
		if omdbResp.Error == "Movie not found!" {
			return nil, ErrNotFound
		}
		c.logger.Warn().Str("error", omdbResp.Error).Str("title", title).Msg("OMDb API returned error")
		return nil, fmt.Errorf("%w: %s", ErrAPIError, omdbResp.Error)
	}

	c.logger.Debug().
		Str("title", title).
		Str("imdbId", omdbResp.ImdbID).
		Msg("OMDb lookup succeeded")

	return extractEnrichment(omdbResp), nil
}

// extractEnrichment maps OMDb field names onto the canonical enrichment
// schema, dropping the service's "N/A" sentinel.
func extractEnrichment(resp Response) *showtime.Enrichment {
	enrichment := &showtime.Enrichment{
		ImdbID:     clean(resp.ImdbID),
		Plot:       clean(resp.Plot),
		Genre:      clean(resp.Genre),
		Rated:      clean(resp.Rated),
		Actors:     clean(resp.Actors),
		Writer:     clean(resp.Writer),
		Language:   clean(resp.Language),
		Awards:     clean(resp.Awards),
		PosterURL:  clean(resp.Poster),
		BoxOffice:  clean(resp.BoxOffice),
		Production: clean(resp.Production),
		Ratings:    extractRatings(resp),
	}
	return enrichment
}

// extractRatings scans the heterogeneous ratings list for the known
// source labels. Unrecognized sources are ignored. A nil result means no
// rating data was present at all.
func extractRatings(resp Response) *showtime.Ratings {
	ratings := showtime.Ratings{
		ImdbRating: clean(resp.ImdbRating),
		ImdbVotes:  clean(resp.ImdbVotes),
	}

	for _, rating := range resp.Ratings {
		switch rating.Source {
		case "Internet Movie Database":
			ratings.Imdb = clean(rating.Value)
		case "Rotten Tomatoes":
			ratings.RottenTomatoes = clean(rating.Value)
		case "Metacritic":
			ratings.Metacritic = clean(rating.Value)
		}
	}

	if ratings == (showtime.Ratings{}) {
		return nil
	}
	return &ratings
}

// clean turns OMDb's "N/A" sentinel (and empty strings) into absence.
func clean(value string) string {
	if value == notApplicable {
		return ""
	}
	return value
}
