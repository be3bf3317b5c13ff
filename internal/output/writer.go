// Package output writes the feed files a pipeline run produces: one JSON
// file per source, a combined movie list, and a run metadata file.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/marquee/marquee/internal/showtime"
)

// SourceStatus is the per-source outcome recorded in run metadata.
type SourceStatus string

const (
	StatusSuccess SourceStatus = "success"
	StatusNoData  SourceStatus = "no_data"
	StatusFailed  SourceStatus = "failed"
)

// SourceResult summarizes one source's contribution to a run.
type SourceResult struct {
	Source     string
	Status     SourceStatus
	MovieCount int
	Error      string
	ScrapedAt  time.Time
}

// RunMetadata is the informational metadata.json payload.
type RunMetadata struct {
	LastUpdated string                    `json:"last_updated"`
	TotalMovies int                       `json:"total_movies"`
	Cinemas     map[string]CinemaMetadata `json:"cinemas"`
}

// CinemaMetadata is the per-source section of RunMetadata.
type CinemaMetadata struct {
	MovieCount  int    `json:"movie_count"`
	LastScraped string `json:"last_scraped"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// Writer persists feed files under a single output directory.
type Writer struct {
	dir    string
	logger zerolog.Logger
}

// NewWriter creates a writer, creating the output directory if needed.
func NewWriter(dir string, logger zerolog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{
		dir:    dir,
		logger: logger.With().Str("component", "output").Logger(),
	}, nil
}

// WriteMovies writes a movie list to a named file in the output
// directory. An empty (non-nil) list writes an empty JSON array.
func (w *Writer) WriteMovies(filename string, movies []showtime.MovieRecord) (string, error) {
	if movies == nil {
		movies = []showtime.MovieRecord{}
	}
	return w.writeJSON(filename, movies)
}

// WriteRunMetadata writes the metadata.json summary for a run.
func (w *Writer) WriteRunMetadata(filename string, results []SourceResult, totalMovies int) (string, error) {
	metadata := RunMetadata{
		LastUpdated: time.Now().Format(time.RFC3339),
		TotalMovies: totalMovies,
		Cinemas:     make(map[string]CinemaMetadata, len(results)),
	}
	for _, result := range results {
		metadata.Cinemas[result.Source] = CinemaMetadata{
			MovieCount:  result.MovieCount,
			LastScraped: result.ScrapedAt.Format(time.RFC3339),
			Status:      string(result.Status),
			Error:       result.Error,
		}
	}
	return w.writeJSON(filename, metadata)
}

// writeJSON marshals with two-space indentation and HTML escaping off so
// titles like "Rønning" and URLs survive byte-for-byte.
func (w *Writer) writeJSON(filename string, value any) (string, error) {
	path := filepath.Join(w.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}

	w.logger.Debug().Str("path", path).Msg("Wrote output file")
	return path, nil
}
