// Package scraper defines the capability contract for site-specific
// showtime scrapers and the shared fetching machinery they build on.
package scraper

import (
	"context"

	"github.com/marquee/marquee/internal/showtime"
)

// Scraper is implemented once per source site. The merge core depends
// only on the RawObservation sequence a scraper produces, never on the
// scraper type itself.
type Scraper interface {
	// Source returns the source identifier (e.g. "siff").
	Source() string
	// ScrapeAllDays fetches and extracts raw observations for every
	// configured day. A partially failed day contributes nothing for
	// that day; the error covers whole-source failures only.
	ScrapeAllDays(ctx context.Context) ([]showtime.RawObservation, error)
	// Cleanup releases any resources held by the scraper.
	Cleanup()
}
