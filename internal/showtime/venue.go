package showtime

import "strings"

// DefaultUnknownPrefix marks cinema IDs synthesized for venues missing
// from a source's venue map.
const DefaultUnknownPrefix = "UNKNOWN"

// VenueResolver maps raw venue names to stable cinema IDs using a
// source's static venue map, with a deterministic fallback for venues
// the map does not know about.
type VenueResolver struct {
	venues map[string]string
	prefix string
}

// NewVenueResolver builds a resolver over a venue→cinema-id map.
// An empty prefix falls back to DefaultUnknownPrefix.
func NewVenueResolver(venues map[string]string, unknownPrefix string) *VenueResolver {
	if unknownPrefix == "" {
		unknownPrefix = DefaultUnknownPrefix
	}
	return &VenueResolver{venues: venues, prefix: unknownPrefix}
}

// Resolve returns the configured cinema ID for a venue name, matched
// exactly and case-sensitively. Unknown venues yield a synthesized ID
// built from the upper-cased name, so the same unknown venue always
// groups under the same ID within a run.
func (r *VenueResolver) Resolve(venue string) string {
	if id, ok := r.venues[venue]; ok {
		return id
	}
	return r.prefix + "_" + strings.ReplaceAll(strings.ToUpper(venue), " ", "_")
}
