package showtime

import "testing"

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestParseMetadata_FullDescriptor(t *testing.T) {
	got := ParseMetadata("USA | 2025 | 119 min. | Joachim Rønning")

	if got.Country == nil || *got.Country != "USA" {
		t.Errorf("Country = %v, want USA", got.Country)
	}
	if got.Year == nil || *got.Year != 2025 {
		t.Errorf("Year = %v, want 2025", got.Year)
	}
	if got.Duration == nil || *got.Duration != 119 {
		t.Errorf("Duration = %v, want 119", got.Duration)
	}
	if got.Director == nil || *got.Director != "Joachim Rønning" {
		t.Errorf("Director = %v, want Joachim Rønning", got.Director)
	}
}

func TestParseMetadata_Empty(t *testing.T) {
	got := ParseMetadata("")

	if got.Country != nil || got.Year != nil || got.Duration != nil || got.Director != nil {
		t.Errorf("expected all-nil result, got %+v", got)
	}
}

func TestParseMetadata_PartialSegments(t *testing.T) {
	got := ParseMetadata("France | no year here")

	if got.Country == nil || *got.Country != "France" {
		t.Errorf("Country = %v, want France", got.Country)
	}
	if got.Year != nil {
		t.Errorf("Year = %v, want nil", *got.Year)
	}
	if got.Duration != nil {
		t.Errorf("Duration = %v, want nil", *got.Duration)
	}
	if got.Director != nil {
		t.Errorf("Director = %v, want nil", *got.Director)
	}
}

func TestParseMetadata_YearScanning(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *int
	}{
		{"plain year", "UK | 1999", intPtr(1999)},
		{"year inside text", "UK | restored 2021 print", intPtr(2021)},
		{"first match wins", "UK | 1984 and 2001", intPtr(1984)},
		{"pre-1900 ignored", "UK | 1899", nil},
		{"five digits ignored", "UK | 20255", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMetadata(tt.text)
			switch {
			case tt.want == nil && got.Year != nil:
				t.Errorf("Year = %d, want nil", *got.Year)
			case tt.want != nil && (got.Year == nil || *got.Year != *tt.want):
				t.Errorf("Year = %v, want %d", got.Year, *tt.want)
			}
		})
	}
}

func TestParseMetadata_DurationVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *int
	}{
		{"with period", "USA | 2020 | 95 min.", intPtr(95)},
		{"no space", "USA | 2020 | 95min", intPtr(95)},
		{"spelled out", "USA | 2020 | 95 minutes", intPtr(95)},
		{"no digits", "USA | 2020 | feature", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMetadata(tt.text)
			switch {
			case tt.want == nil && got.Duration != nil:
				t.Errorf("Duration = %d, want nil", *got.Duration)
			case tt.want != nil && (got.Duration == nil || *got.Duration != *tt.want):
				t.Errorf("Duration = %v, want %d", got.Duration, *tt.want)
			}
		})
	}
}

func TestParseMetadata_ExtraSegmentsIgnored(t *testing.T) {
	got := ParseMetadata("USA | 2020 | 90 min | Someone | 35mm | extra")

	if got.Director == nil || *got.Director != "Someone" {
		t.Errorf("Director = %v, want Someone", got.Director)
	}
}
