package showtime

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Enricher looks up supplementary metadata for a title. Implementations
// are best-effort: a nil result means no enrichment is available, whether
// because the title is unknown or because the lookup failed.
type Enricher interface {
	Lookup(ctx context.Context, title string, year *int) *Enrichment
}

// MergerOptions configures a Merger.
type MergerOptions struct {
	// Resolver maps venue names to cinema IDs.
	Resolver *VenueResolver
	// UnknownCinemaID is used for observations with no venue at all.
	UnknownCinemaID string
	// Enricher, when non-nil, is consulted once per merged record.
	Enricher Enricher
	// EnrichDelay is slept between successive enrichment lookups.
	EnrichDelay time.Duration
}

// Merger groups raw observations by (title, venue) and builds one
// MovieRecord per group, driving metadata parsing, time normalization,
// venue resolution and enrichment.
type Merger struct {
	opts   MergerOptions
	logger zerolog.Logger
	now    func() time.Time
}

// NewMerger creates a merge engine for one source.
func NewMerger(opts MergerOptions, logger zerolog.Logger) *Merger {
	return &Merger{
		opts:   opts,
		logger: logger.With().Str("component", "merge").Logger(),
		now:    time.Now,
	}
}

type groupKey struct {
	title    string
	venue    string
	hasVenue bool
}

// Merge collapses observations sharing a (title, venue) pair into single
// records. Group order follows first appearance in the input, which keeps
// output and enrichment call order deterministic for a given input.
// Observations without a title cannot be grouped and are skipped with a
// warning; everything else degrades per-field rather than failing.
func (m *Merger) Merge(ctx context.Context, observations []RawObservation) []MovieRecord {
	groups := make(map[groupKey][]RawObservation)
	var order []groupKey

	for _, obs := range observations {
		if obs.Title == "" {
			m.logger.Warn().Str("showDate", obs.ShowDate).Msg("Skipping observation without title")
			continue
		}
		key := groupKey{title: obs.Title}
		if obs.Venue != nil {
			key.venue = *obs.Venue
			key.hasVenue = true
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], obs)
	}

	scrapedAt := m.now().Format("2006-01-02")
	records := make([]MovieRecord, 0, len(order))

	for i, key := range order {
		entries := groups[key]
		first := entries[0]

		meta := ParseMetadata(first.Metadata)

		cinemaID := m.opts.UnknownCinemaID
		if key.hasVenue {
			cinemaID = m.opts.Resolver.Resolve(key.venue)
		}

		showtimes := make([]Showtime, 0)
		for _, obs := range entries {
			for _, label := range obs.Showtimes {
				converted, ok := To24Hour(label)
				if !ok {
					m.logger.Debug().
						Str("title", key.title).
						Str("label", label).
						Msg("Dropping unparseable showtime")
					continue
				}
				showtimes = append(showtimes, Showtime{ShowDate: obs.ShowDate, ShowTime: converted})
			}
		}

		sort.SliceStable(showtimes, func(a, b int) bool {
			if showtimes[a].ShowDate != showtimes[b].ShowDate {
				return showtimes[a].ShowDate < showtimes[b].ShowDate
			}
			return showtimes[a].ShowTime < showtimes[b].ShowTime
		})

		record := MovieRecord{
			Movie: Movie{
				Title:    key.title,
				URL:      first.URL,
				ImageURL: first.ImageURL,
				Country:  meta.Country,
				Year:     meta.Year,
				Duration: meta.Duration,
				Director: meta.Director,
			},
			CinemaID:  cinemaID,
			Showtimes: showtimes,
			ScrapedAt: scrapedAt,
		}

		if m.opts.Enricher != nil {
			m.logger.Info().
				Int("index", i+1).
				Int("total", len(order)).
				Str("title", key.title).
				Str("cinemaId", cinemaID).
				Msg("Enriching movie")

			record.Movie.Enrichment = m.opts.Enricher.Lookup(ctx, key.title, meta.Year)

			if m.opts.EnrichDelay > 0 && i < len(order)-1 {
				select {
				case <-time.After(m.opts.EnrichDelay):
				case <-ctx.Done():
					return append(records, record)
				}
			}
		}

		records = append(records, record)
	}

	return records
}
