// Package metadata provides best-effort movie enrichment backed by an
// external lookup service, with a process-lifetime result cache.
package metadata

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/marquee/marquee/internal/metadata/omdb"
	"github.com/marquee/marquee/internal/showtime"
)

// LookupClient is the narrow contract the service needs from a provider.
type LookupClient interface {
	Name() string
	IsConfigured() bool
	SearchByTitleYear(ctx context.Context, title string, year *int) (*showtime.Enrichment, error)
}

// Service performs enrichment lookups with caching. A lookup never
// returns an error to its caller: every failure mode degrades to "no
// enrichment for this record".
type Service struct {
	client LookupClient
	cache  *Cache
	logger zerolog.Logger
}

// NewService creates an enrichment service around a lookup client.
func NewService(client LookupClient, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		cache:  NewCache(),
		logger: logger.With().Str("component", "enrichment").Logger(),
	}
}

// IsConfigured reports whether the underlying provider has credentials.
func (s *Service) IsConfigured() bool {
	return s.client.IsConfigured()
}

// Lookup returns enrichment data for a title, or nil when none is
// available. Confirmed not-found results are cached so a repeated title
// costs no second call within the run; transport failures are not cached
// so a later record with the same title gets a fresh attempt.
func (s *Service) Lookup(ctx context.Context, title string, year *int) *showtime.Enrichment {
	key := Key(title, year)

	if enrichment, outcome := s.cache.Get(key); outcome != Uncached {
		s.logger.Debug().Str("title", title).Bool("found", outcome == Found).Msg("Cache hit")
		if outcome == Found {
			return enrichment
		}
		return nil
	}

	enrichment, err := s.client.SearchByTitleYear(ctx, title, year)
	switch {
	case err == nil:
		s.cache.SetFound(key, enrichment)
		return enrichment
	case errors.Is(err, omdb.ErrNotFound):
		s.logger.Debug().Str("title", title).Msg("No match on lookup service")
		s.cache.SetNotFound(key)
		return nil
	default:
		s.logger.Warn().Err(err).Str("title", title).Msg("Enrichment lookup failed")
		return nil
	}
}
