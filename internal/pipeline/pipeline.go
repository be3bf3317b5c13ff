// Package pipeline sequences a full run: scrape each enabled source,
// merge and enrich its observations, and persist the feed files plus
// run history. Sources are processed one at a time; a failing source
// never stops the ones after it.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/marquee/marquee/internal/config"
	"github.com/marquee/marquee/internal/metadata"
	"github.com/marquee/marquee/internal/metadata/omdb"
	"github.com/marquee/marquee/internal/output"
	"github.com/marquee/marquee/internal/scraper"
	"github.com/marquee/marquee/internal/scraper/siff"
	"github.com/marquee/marquee/internal/scraper/viff"
	"github.com/marquee/marquee/internal/showtime"
	"github.com/marquee/marquee/internal/store"
)

// ScraperFactory builds a site scraper from its definition.
type ScraperFactory func(def *scraper.SourceDefinition, fetcher *scraper.Fetcher, logger zerolog.Logger) scraper.Scraper

// Summary reports one pipeline run.
type Summary struct {
	TotalMovies int
	Results     []output.SourceResult
}

// Pipeline owns the components of a scrape-merge-enrich-persist run.
type Pipeline struct {
	cfg         *config.Config
	definitions map[string]*scraper.SourceDefinition
	factories   map[string]ScraperFactory
	enricher    showtime.Enricher
	enrichDelay time.Duration
	writer      *output.Writer
	history     *store.Store
	logger      zerolog.Logger
}

// New assembles a pipeline from configuration. The run-history store is
// optional: if it cannot be opened the pipeline still runs, it just
// stops recording.
func New(cfg *config.Config, logger zerolog.Logger) (*Pipeline, error) {
	definitions, err := scraper.LoadDefinitions(cfg.Sources.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load source definitions: %w", err)
	}

	writer, err := output.NewWriter(cfg.Output.Dir, logger)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:         cfg,
		definitions: definitions,
		factories: map[string]ScraperFactory{
			"siff": func(def *scraper.SourceDefinition, fetcher *scraper.Fetcher, logger zerolog.Logger) scraper.Scraper {
				return siff.New(def, fetcher, logger)
			},
			"viff": func(def *scraper.SourceDefinition, fetcher *scraper.Fetcher, logger zerolog.Logger) scraper.Scraper {
				return viff.New(def, fetcher, logger)
			},
		},
		writer: writer,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}

	if cfg.OMDB.Enabled {
		client := omdb.NewClient(omdb.Config{
			APIKey:  cfg.OMDB.APIKey,
			BaseURL: cfg.OMDB.BaseURL,
			Timeout: cfg.OMDB.TimeoutSeconds,
		}, logger)
		if client.IsConfigured() {
			p.enricher = metadata.NewService(client, logger)
			p.enrichDelay = cfg.OMDB.LookupDelay()
		} else {
			p.logger.Warn().Msg("OMDb enrichment enabled but no API key configured, running without it")
		}
	}

	if cfg.Database.Path != "" {
		history, err := store.Open(cfg.Database.Path, logger)
		if err != nil {
			p.logger.Warn().Err(err).Msg("Run history store unavailable")
		} else {
			p.history = history
		}
	}

	return p, nil
}

// Close releases pipeline resources.
func (p *Pipeline) Close() {
	if p.history != nil {
		p.history.Close()
	}
}

// Definitions exposes the loaded source definitions.
func (p *Pipeline) Definitions() map[string]*scraper.SourceDefinition {
	return p.definitions
}

// Run executes one full pipeline pass over the given sources (the
// configured set when empty). It always writes the combined feed and
// run metadata files, even when every source came up empty.
func (p *Pipeline) Run(ctx context.Context, sources []string) (*Summary, error) {
	if len(sources) == 0 {
		sources = p.cfg.Sources.Enabled
	}

	summary := &Summary{}
	var combined []showtime.MovieRecord

	for _, source := range sources {
		result, records := p.runSource(ctx, source)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		summary.Results = append(summary.Results, result)
		combined = append(combined, records...)
		p.recordHistory(ctx, result)
	}

	summary.TotalMovies = len(combined)

	if _, err := p.writer.WriteMovies(p.cfg.Output.CombinedFile, combined); err != nil {
		return nil, err
	}
	if _, err := p.writer.WriteRunMetadata(p.cfg.Output.MetadataFile, summary.Results, summary.TotalMovies); err != nil {
		return nil, err
	}

	p.logger.Info().
		Int("totalMovies", summary.TotalMovies).
		Int("sources", len(summary.Results)).
		Msg("Pipeline run complete")

	return summary, nil
}

func (p *Pipeline) runSource(ctx context.Context, source string) (output.SourceResult, []showtime.MovieRecord) {
	result := output.SourceResult{
		Source:    source,
		Status:    output.StatusFailed,
		ScrapedAt: time.Now(),
	}

	def, ok := p.definitions[source]
	if !ok {
		result.Error = fmt.Sprintf("unknown source %q", source)
		p.logger.Warn().Str("source", source).Msg("Skipping unknown source")
		return result, nil
	}
	factory, ok := p.factories[source]
	if !ok {
		result.Error = fmt.Sprintf("no scraper registered for source %q", source)
		p.logger.Warn().Str("source", source).Msg("Skipping source without scraper")
		return result, nil
	}

	p.logger.Info().Str("source", source).Msg("Scraping source")

	fetcher := scraper.NewFetcher(scraper.FetcherConfig{
		UserAgent:    p.cfg.Scraper.UserAgent,
		Timeout:      p.cfg.Scraper.Timeout(),
		RequestDelay: p.cfg.Scraper.RequestDelay(),
	}, p.logger)
	scr := factory(def, fetcher, p.logger)
	defer scr.Cleanup()

	observations, err := scr.ScrapeAllDays(ctx)
	if err != nil {
		result.Error = err.Error()
		p.logger.Error().Err(err).Str("source", source).Msg("Source scrape failed")
		return result, nil
	}
	if len(observations) == 0 {
		result.Status = output.StatusNoData
		p.logger.Warn().Str("source", source).Msg("No observations scraped")
		return result, nil
	}

	merger := showtime.NewMerger(showtime.MergerOptions{
		Resolver:        showtime.NewVenueResolver(def.Venues, def.UnknownPrefix),
		UnknownCinemaID: def.UnknownCinema,
		Enricher:        p.enricher,
		EnrichDelay:     p.enrichDelay,
	}, p.logger)

	records := merger.Merge(ctx, observations)
	if len(records) == 0 {
		result.Status = output.StatusNoData
		return result, nil
	}

	if _, err := p.writer.WriteMovies(def.OutputFile, records); err != nil {
		result.Error = err.Error()
		return result, nil
	}

	result.Status = output.StatusSuccess
	result.MovieCount = len(records)

	p.logger.Info().
		Str("source", source).
		Int("observations", len(observations)).
		Int("movies", len(records)).
		Msg("Source complete")

	return result, records
}

// recordHistory persists a source outcome; failures are logged only.
func (p *Pipeline) recordHistory(ctx context.Context, result output.SourceResult) {
	if p.history == nil {
		return
	}
	_, err := p.history.RecordRun(ctx, store.Run{
		Source:     result.Source,
		Status:     string(result.Status),
		MovieCount: result.MovieCount,
		Error:      result.Error,
		StartedAt:  result.ScrapedAt,
		FinishedAt: time.Now(),
	})
	if err != nil {
		p.logger.Warn().Err(err).Str("source", result.Source).Msg("Failed to record run history")
	}
}
