// Package siff scrapes showtime listings from the SIFF website.
package siff

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/marquee/marquee/internal/scraper"
	"github.com/marquee/marquee/internal/showtime"
)

// Scraper extracts raw observations from SIFF day-listing pages.
type Scraper struct {
	def     *scraper.SourceDefinition
	fetcher *scraper.Fetcher
	logger  zerolog.Logger
}

// New creates a SIFF scraper.
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

// ScrapeAllDays fetches every configured day's listing page. A day that
// fails to fetch contributes no observations; only a context cancellation
// aborts the whole source.
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

// extract pulls one observation per movie item from a listing document.
// Items missing a title are skipped; every other missing field degrades
// to absence.
func (s *Scraper) extract(doc *goquery.Document, showDate string) []showtime.RawObservation {
	var observations []showtime.RawObservation

	doc.Find("div.listing.thumbs div.item").Each(func(_ int, item *goquery.Selection) {
		titleElem := item.Find("h3").First()
		title := strings.TrimSpace(titleElem.Text())
		if title == "" {
			return
		}

		obs := showtime.RawObservation{
			Title:    title,
			Metadata: strings.TrimSpace(item.Find("p.meta").First().Text()),
			ShowDate: showDate,
		}

		if href, ok := titleElem.Find("a").First().Attr("href"); ok {
			movieURL := scraper.AbsoluteURL(s.def.BaseURL, strings.TrimSpace(href))
			obs.URL = &movieURL
		}
		if src, ok := item.Find("img").First().Attr("src"); ok {
			imageURL := scraper.AbsoluteURL(s.def.BaseURL, strings.TrimSpace(src))
			obs.ImageURL = &imageURL
		}

		times := item.Find("div.times").First()
		if venue := strings.TrimSpace(times.Find("h3 span.dark-gray-text").First().Text()); venue != "" {
			obs.Venue = &venue
		}
		obs.Showtimes = make([]string, 0)
		times.Find("a.button").Each(func(_ int, btn *goquery.Selection) {
			label := strings.TrimSpace(btn.Text())
			if strings.Contains(label, "AM") || strings.Contains(label, "PM") {
				obs.Showtimes = append(obs.Showtimes, label)
			}
		})

		observations = append(observations, obs)
	})

	return observations
}
