// Package viff scrapes showtime listings from the VIFF website.
package viff

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/marquee/marquee/internal/scraper"
	"github.com/marquee/marquee/internal/showtime"
)

// Scraper extracts raw observations from VIFF what's-on pages.
type Scraper struct {
	def     *scraper.SourceDefinition
	fetcher *scraper.Fetcher
	logger  zerolog.Logger
}

// New creates a VIFF scraper.
func New(def *scraper.SourceDefinition, fetcher *scraper.Fetcher, logger zerolog.Logger) *Scraper {
	return &Scraper{
		def:     def,
		fetcher: fetcher,
		logger:  logger.With().Str("component", "scraper").Str("source", def.ID).Logger(),
	}
}

// Source returns the source identifier.
func (s *Scraper) Source() string {
	return s.def.ID
}

// ScrapeAllDays fetches every configured day's what's-on page.
func (s *Scraper) ScrapeAllDays(ctx context.Context) ([]showtime.RawObservation, error) {
	var all []showtime.RawObservation

	for _, day := range s.def.Days {
		observations, err := s.scrapeDay(ctx, day)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn().Err(err).Int("day", day).Msg("Failed to scrape day")
			continue
		}
		all = append(all, observations...)
	}

	return all, nil
}

// Cleanup releases scraper resources. The HTTP fetcher holds none.
func (s *Scraper) Cleanup() {}

func (s *Scraper) scrapeDay(ctx context.Context, dayIndex int) ([]showtime.RawObservation, error) {
	pageURL := fmt.Sprintf(s.def.ListingURL, dayIndex)

	doc, err := s.fetcher.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	showDate := scraper.DateForDayIndex(dayIndex)
	observations := s.extract(doc, showDate)

	s.logger.Debug().
		Int("day", dayIndex).
		Str("showDate", showDate).
		Int("movies", len(observations)).
		Msg("Scraped day listing")

	return observations, nil
}

// extract pulls one observation per film card. VIFF renders one card per
// (film, venue) pairing, so the venue lives on the card itself rather
// than in a nested times section.
func (s *Scraper) extract(doc *goquery.Document, showDate string) []showtime.RawObservation {
	var observations []showtime.RawObservation

	doc.Find("div.whats-on article.film-card").Each(func(_ int, card *goquery.Selection) {
		titleElem := card.Find("h2.film-title").First()
		title := strings.TrimSpace(titleElem.Text())
		if title == "" {
			return
		}

		obs := showtime.RawObservation{
			Title:    title,
			Metadata: strings.TrimSpace(card.Find("p.film-meta").First().Text()),
			ShowDate: showDate,
		}

		if href, ok := titleElem.Find("a").First().Attr("href"); ok {
			movieURL := scraper.AbsoluteURL(s.def.BaseURL, strings.TrimSpace(href))
			obs.URL = &movieURL
		}
		if src, ok := card.Find("img.film-poster").First().Attr("src"); ok {
			imageURL := scraper.AbsoluteURL(s.def.BaseURL, strings.TrimSpace(src))
			obs.ImageURL = &imageURL
		}

		if venue := strings.TrimSpace(card.Find("span.venue-name").First().Text()); venue != "" {
			obs.Venue = &venue
		}
		obs.Showtimes = make([]string, 0)
		card.Find("ul.screening-times a.screening-time").Each(func(_ int, link *goquery.Selection) {
			label := strings.TrimSpace(link.Text())
			if strings.Contains(label, "AM") || strings.Contains(label, "PM") {
				obs.Showtimes = append(obs.Showtimes, label)
			}
		})

		observations = append(observations, obs)
	})

	return observations
}
