package showtime

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	yearPattern     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	durationPattern = regexp.MustCompile(`(\d+)\s*min`)
)

// ParseMetadata parses a pipe-delimited descriptor string such as
// "USA | 2025 | 119 min. | Joachim Rønning" into typed fields.
// Parsing is best-effort: segments that are missing or malformed leave
// the corresponding field nil, and the function never fails.
func ParseMetadata(text string) ParsedMetadata {
	var result ParsedMetadata

	if strings.TrimSpace(text) == "" {
		return result
	}

	parts := strings.Split(text, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) >= 1 {
		country := parts[0]
		result.Country = &country
	}

	if len(parts) >= 2 {
		if match := yearPattern.FindString(parts[1]); match != "" {
			if year, err := strconv.Atoi(match); err == nil {
				result.Year = &year
			}
		}
	}

	if len(parts) >= 3 {
		if match := durationPattern.FindStringSubmatch(parts[2]); match != nil {
			if minutes, err := strconv.Atoi(match[1]); err == nil {
				result.Duration = &minutes
			}
		}
	}

	if len(parts) >= 4 {
		director := parts[3]
		result.Director = &director
	}

	return result
}
