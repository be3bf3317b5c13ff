// Package showtime holds the canonical movie showtime data model and the
// normalization-and-merge pipeline that turns raw scraped listings into it.
package showtime

// RawObservation is one scraped (movie, day) sighting from a source site.
// It is produced by the scraper layer and never modified afterwards.
type RawObservation struct {
	Title     string   `json:"title"`
	URL       *string  `json:"url"`
	ImageURL  *string  `json:"image_url"`
	Metadata  string   `json:"metadata"`
	Venue     *string  `json:"venue"`
	Showtimes []string `json:"showtimes"`
	ShowDate  string   `json:"show_date"`
}

// ParsedMetadata is the typed result of parsing a free-text descriptor
// string. Fields that could not be parsed stay nil.
type ParsedMetadata struct {
	Country  *string
	Year     *int
	Duration *int
	Director *string
}

// Showtime is a single screening in canonical form.
type Showtime struct {
	ShowDate string `json:"show_date"`
	ShowTime string `json:"show_time"`
}

// Ratings holds the normalized rating subset extracted from an enrichment
// response. A nil *Ratings means no rating data was present at all.
type Ratings struct {
	Imdb           string `json:"imdb,omitempty"`
	RottenTomatoes string `json:"rotten_tomatoes,omitempty"`
	Metacritic     string `json:"metacritic,omitempty"`
	ImdbRating     string `json:"imdb_rating,omitempty"`
	ImdbVotes      string `json:"imdb_votes,omitempty"`
}

// Enrichment is the supplementary metadata obtained from the external
// lookup service. It is embedded in Movie so its fields marshal flat
// alongside the base fields without ever shadowing them.
type Enrichment struct {
	ImdbID     string   `json:"imdb_id,omitempty"`
	Plot       string   `json:"plot,omitempty"`
	Genre      string   `json:"genre,omitempty"`
	Rated      string   `json:"rated,omitempty"`
	Actors     string   `json:"actors,omitempty"`
	Writer     string   `json:"writer,omitempty"`
	Language   string   `json:"language,omitempty"`
	Awards     string   `json:"awards,omitempty"`
	PosterURL  string   `json:"poster_url,omitempty"`
	Ratings    *Ratings `json:"ratings,omitempty"`
	BoxOffice  string   `json:"box_office,omitempty"`
	Production string   `json:"production,omitempty"`
}

// Movie is the movie sub-object of an output record. Base fields come from
// the scraped observation and its parsed metadata; enrichment fields are
// additive and omitted entirely when no lookup data exists.
type Movie struct {
	Title    string  `json:"title"`
	URL      *string `json:"url"`
	ImageURL *string `json:"image_url"`
	Country  *string `json:"country"`
	Year     *int    `json:"year"`
	Duration *int    `json:"duration"`
	Director *string `json:"director"`

	*Enrichment
}

// MovieRecord is the output unit: one movie at one venue with all of its
// observed showtimes for the run.
type MovieRecord struct {
	Movie     Movie      `json:"movie"`
	CinemaID  string     `json:"cinema_id"`
	Showtimes []Showtime `json:"showtimes"`
	ScrapedAt string     `json:"scraped_at"`
}
