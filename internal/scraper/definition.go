package scraper

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/marquee/marquee/internal/showtime"
)

//go:embed definitions/*.yaml
var embeddedDefinitions embed.FS

// SourceDefinition describes one cinema website: where its listings live
// and how its venue names map to stable cinema IDs.
type SourceDefinition struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	BaseURL       string            `yaml:"base_url"`
	ListingURL    string            `yaml:"listing_url"` // %d is the day index
	Days          []int             `yaml:"days"`        // 0 = today
	Venues        map[string]string `yaml:"venues"`
	UnknownPrefix string            `yaml:"unknown_prefix"`
	UnknownCinema string            `yaml:"unknown_cinema_id"`
	OutputFile    string            `yaml:"output_file"`
}

// Validate checks a definition for the fields every scraper needs.
func (d *SourceDefinition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("source definition missing id")
	}
	if d.BaseURL == "" {
		return fmt.Errorf("source %q missing base_url", d.ID)
	}
	if d.ListingURL == "" {
		return fmt.Errorf("source %q missing listing_url", d.ID)
	}
	if len(d.Days) == 0 {
		d.Days = []int{0, 1, 2, 3, 4, 5, 6}
	}
	if d.UnknownPrefix == "" {
		d.UnknownPrefix = showtime.DefaultUnknownPrefix
	}
	if d.UnknownCinema == "" {
		d.UnknownCinema = strings.ToUpper(d.ID) + "_UNKNOWN"
	}
	if d.OutputFile == "" {
		d.OutputFile = d.ID + "_movies.json"
	}
	return nil
}

// LoadDefinitions returns all source definitions, keyed by source ID.
// Embedded definitions are loaded first; YAML files in overrideDir (when
// set) replace or extend them, so an operator can tweak venue maps
// without rebuilding.
func LoadDefinitions(overrideDir string) (map[string]*SourceDefinition, error) {
	definitions := make(map[string]*SourceDefinition)

	entries, err := embeddedDefinitions.ReadDir("definitions")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded definitions: %w", err)
	}
	for _, entry := range entries {
		data, err := embeddedDefinitions.ReadFile("definitions/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded definition %s: %w", entry.Name(), err)
		}
		def, err := parseDefinition(data)
		if err != nil {
			return nil, fmt.Errorf("embedded definition %s: %w", entry.Name(), err)
		}
		definitions[def.ID] = def
	}

	if overrideDir != "" {
		files, err := filepath.Glob(filepath.Join(overrideDir, "*.yaml"))
		if err != nil {
			return nil, fmt.Errorf("failed to list definitions in %s: %w", overrideDir, err)
		}
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read definition %s: %w", file, err)
			}
			def, err := parseDefinition(data)
			if err != nil {
				return nil, fmt.Errorf("definition %s: %w", file, err)
			}
			definitions[def.ID] = def
		}
	}

	return definitions, nil
}

// SourceIDs returns the sorted IDs of a definition set.
func SourceIDs(definitions map[string]*SourceDefinition) []string {
	ids := make([]string, 0, len(definitions))
	for id := range definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func parseDefinition(data []byte) (*SourceDefinition, error) {
	var def SourceDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
