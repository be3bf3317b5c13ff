package showtime

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestMerger(enricher Enricher) *Merger {
	m := NewMerger(MergerOptions{
		Resolver:        NewVenueResolver(siffVenues, "UNKNOWN"),
		UnknownCinemaID: "SIFF_UNKNOWN",
		Enricher:        enricher,
	}, zerolog.Nop())
	return m
}

type stubEnricher struct {
	calls   []string
	results map[string]*Enrichment
}

func (s *stubEnricher) Lookup(ctx context.Context, title string, year *int) *Enrichment {
	s.calls = append(s.calls, title)
	return s.results[title]
}

func TestMerge_EndToEndScenario(t *testing.T) {
	observations := []RawObservation{
		{
			Title:     "Frankenstein",
			Venue:     strPtr("SIFF Cinema Uptown"),
			Showtimes: []string{"7:00 PM"},
			ShowDate:  "2025-10-01",
			Metadata:  "USA | 2025 | 119 min. | Guillermo del Toro",
		},
		{
			Title:     "Frankenstein",
			Venue:     strPtr("SIFF Cinema Uptown"),
			Showtimes: []string{"9:30 PM"},
			ShowDate:  "2025-10-01",
		},
	}

	records := newTestMerger(nil).Merge(context.Background(), observations)

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]

	if rec.CinemaID != "SIFF_UPTOWN" {
		t.Errorf("CinemaID = %q, want SIFF_UPTOWN", rec.CinemaID)
	}
	want := []Showtime{
		{ShowDate: "2025-10-01", ShowTime: "19:00"},
		{ShowDate: "2025-10-01", ShowTime: "21:30"},
	}
	if len(rec.Showtimes) != len(want) {
		t.Fatalf("got %d showtimes, want %d", len(rec.Showtimes), len(want))
	}
	for i := range want {
		if rec.Showtimes[i] != want[i] {
			t.Errorf("showtimes[%d] = %+v, want %+v", i, rec.Showtimes[i], want[i])
		}
	}
	if rec.Movie.Country == nil || *rec.Movie.Country != "USA" {
		t.Errorf("Country = %v, want USA", rec.Movie.Country)
	}
	if rec.Movie.Year == nil || *rec.Movie.Year != 2025 {
		t.Errorf("Year = %v, want 2025", rec.Movie.Year)
	}
	if rec.Movie.Director == nil || *rec.Movie.Director != "Guillermo del Toro" {
		t.Errorf("Director = %v, want Guillermo del Toro", rec.Movie.Director)
	}
}

func TestMerge_ShowtimesSortedAcrossDates(t *testing.T) {
	observations := []RawObservation{
		{Title: "Late Film", Venue: strPtr("SIFF Film Center"), Showtimes: []string{"9:00 PM", "1:00 PM"}, ShowDate: "2025-10-02"},
		{Title: "Late Film", Venue: strPtr("SIFF Film Center"), Showtimes: []string{"11:00 PM"}, ShowDate: "2025-10-01"},
	}

	records := newTestMerger(nil).Merge(context.Background(), observations)

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	times := records[0].Showtimes
	for i := 1; i < len(times); i++ {
		prev, cur := times[i-1], times[i]
		if prev.ShowDate > cur.ShowDate {
			t.Errorf("dates out of order at %d: %s > %s", i, prev.ShowDate, cur.ShowDate)
		}
		if prev.ShowDate == cur.ShowDate && prev.ShowTime > cur.ShowTime {
			t.Errorf("times out of order at %d: %s > %s", i, prev.ShowTime, cur.ShowTime)
		}
	}
	if times[0].ShowDate != "2025-10-01" || times[0].ShowTime != "23:00" {
		t.Errorf("first showtime = %+v, want 2025-10-01 23:00", times[0])
	}
}

func TestMerge_DuplicateShowtimesPreserved(t *testing.T) {
	observations := []RawObservation{
		{Title: "Rerun", Venue: strPtr("SIFF Cinema Egyptian"), Showtimes: []string{"7:00 PM"}, ShowDate: "2025-10-01"},
		{Title: "Rerun", Venue: strPtr("SIFF Cinema Egyptian"), Showtimes: []string{"7:00 PM"}, ShowDate: "2025-10-01"},
	}

	records := newTestMerger(nil).Merge(context.Background(), observations)

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if len(records[0].Showtimes) != 2 {
		t.Errorf("got %d showtimes, want duplicates preserved (2)", len(records[0].Showtimes))
	}
}

func TestMerge_UnparseableShowtimeDroppedNotGroup(t *testing.T) {
	observations := []RawObservation{
		{Title: "Mixed", Venue: strPtr("SIFF Cinema Uptown"), Showtimes: []string{"garbage", "7:00 PM"}, ShowDate: "2025-10-01"},
	}

	records := newTestMerger(nil).Merge(context.Background(), observations)

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if len(records[0].Showtimes) != 1 || records[0].Showtimes[0].ShowTime != "19:00" {
		t.Errorf("showtimes = %+v, want only 19:00", records[0].Showtimes)
	}
}

func TestMerge_EmptyShowtimesStillEmitted(t *testing.T) {
	observations := []RawObservation{
		{Title: "No Times", Venue: strPtr("SIFF Cinema Uptown"), Showtimes: []string{"TBD"}, ShowDate: "2025-10-01"},
	}

	records := newTestMerger(nil).Merge(context.Background(), observations)

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if len(records[0].Showtimes) != 0 {
		t.Errorf("showtimes = %+v, want empty", records[0].Showtimes)
	}
}

func TestMerge_NilVenueUsesUnknownID(t *testing.T) {
	observations := []RawObservation{
		{Title: "Roaming", Showtimes: []string{"7:00 PM"}, ShowDate: "2025-10-01"},
		{Title: "Roaming", Venue: strPtr("SIFF Cinema Uptown"), Showtimes: []string{"9:00 PM"}, ShowDate: "2025-10-01"},
	}

	records := newTestMerger(nil).Merge(context.Background(), observations)

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (nil venue groups separately)", len(records))
	}
	if records[0].CinemaID != "SIFF_UNKNOWN" {
		t.Errorf("CinemaID = %q, want SIFF_UNKNOWN", records[0].CinemaID)
	}
	if records[1].CinemaID != "SIFF_UPTOWN" {
		t.Errorf("CinemaID = %q, want SIFF_UPTOWN", records[1].CinemaID)
	}
}

func TestMerge_MissingTitleSkipped(t *testing.T) {
	observations := []RawObservation{
		{Venue: strPtr("SIFF Cinema Uptown"), Showtimes: []string{"7:00 PM"}, ShowDate: "2025-10-01"},
		{Title: "Kept", Venue: strPtr("SIFF Cinema Uptown"), Showtimes: []string{"9:00 PM"}, ShowDate: "2025-10-01"},
	}

	records := newTestMerger(nil).Merge(context.Background(), observations)

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Movie.Title != "Kept" {
		t.Errorf("Title = %q, want Kept", records[0].Movie.Title)
	}
}

func TestMerge_GroupOrderFollowsFirstAppearance(t *testing.T) {
	observations := []RawObservation{
		{Title: "B", Venue: strPtr("SIFF Cinema Uptown"), ShowDate: "2025-10-01"},
		{Title: "A", Venue: strPtr("SIFF Cinema Uptown"), ShowDate: "2025-10-01"},
		{Title: "B", Venue: strPtr("SIFF Cinema Uptown"), ShowDate: "2025-10-02"},
	}

	records := newTestMerger(nil).Merge(context.Background(), observations)

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Movie.Title != "B" || records[1].Movie.Title != "A" {
		t.Errorf("order = [%s, %s], want [B, A]", records[0].Movie.Title, records[1].Movie.Title)
	}
}

func TestMerge_EnrichmentAdditive(t *testing.T) {
	enricher := &stubEnricher{results: map[string]*Enrichment{
		"Frankenstein": {ImdbID: "tt1312171", Plot: "A scientist builds a creature."},
	}}
	observations := []RawObservation{
		{
			Title:     "Frankenstein",
			Venue:     strPtr("SIFF Cinema Uptown"),
			Showtimes: []string{"7:00 PM"},
			ShowDate:  "2025-10-01",
			Metadata:  "USA | 2025 | 119 min. | Guillermo del Toro",
		},
	}

	records := newTestMerger(enricher).Merge(context.Background(), observations)

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	movie := records[0].Movie
	if movie.Enrichment == nil || movie.ImdbID != "tt1312171" {
		t.Errorf("enrichment not attached: %+v", movie.Enrichment)
	}
	// Base fields stay untouched by enrichment.
	if movie.Title != "Frankenstein" || movie.Director == nil || *movie.Director != "Guillermo del Toro" {
		t.Errorf("base fields changed: title=%q director=%v", movie.Title, movie.Director)
	}
}

func TestMerge_EnrichmentFailureIsolated(t *testing.T) {
	enricher := &stubEnricher{results: map[string]*Enrichment{
		"C": {ImdbID: "tt0000003"},
	}}
	observations := []RawObservation{
		{Title: "A", Venue: strPtr("SIFF Cinema Uptown"), ShowDate: "2025-10-01"},
		{Title: "B", Venue: strPtr("SIFF Cinema Uptown"), ShowDate: "2025-10-01"},
		{Title: "C", Venue: strPtr("SIFF Cinema Uptown"), ShowDate: "2025-10-01"},
	}

	records := newTestMerger(enricher).Merge(context.Background(), observations)

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if len(enricher.calls) != 3 {
		t.Errorf("got %d lookups, want every record attempted", len(enricher.calls))
	}
	if records[0].Movie.Enrichment != nil || records[1].Movie.Enrichment != nil {
		t.Error("expected A and B to stay unenriched")
	}
	if records[2].Movie.Enrichment == nil {
		t.Error("expected C to be enriched despite earlier misses")
	}
}

type cancelingEnricher struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancelingEnricher) Lookup(ctx context.Context, title string, year *int) *Enrichment {
	c.calls++
	c.cancel()
	return nil
}

func TestMerge_CancelSkipsEnrichDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	enricher := &cancelingEnricher{cancel: cancel}

	m := NewMerger(MergerOptions{
		Resolver:        NewVenueResolver(siffVenues, "UNKNOWN"),
		UnknownCinemaID: "SIFF_UNKNOWN",
		Enricher:        enricher,
		EnrichDelay:     time.Hour,
	}, zerolog.Nop())

	observations := []RawObservation{
		{Title: "A", Venue: strPtr("SIFF Cinema Uptown"), ShowDate: "2025-10-01"},
		{Title: "B", Venue: strPtr("SIFF Cinema Uptown"), ShowDate: "2025-10-01"},
	}

	done := make(chan []MovieRecord, 1)
	go func() { done <- m.Merge(ctx, observations) }()

	select {
	case records := <-done:
		if len(records) != 1 {
			t.Errorf("got %d records, want only the one merged before cancellation", len(records))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Merge still waiting out the enrichment delay after cancellation")
	}
	if enricher.calls != 1 {
		t.Errorf("got %d lookups, want 1", enricher.calls)
	}
}

func TestMerge_EmptyInput(t *testing.T) {
	records := newTestMerger(nil).Merge(context.Background(), nil)

	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}
