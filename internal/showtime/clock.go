package showtime

import (
	"regexp"
	"strings"
	"time"
)

// Matches "H:MM AM/PM" with a 1-12 hour, zero-padded or not; time.Parse
// alone is laxer than the labels the sites actually render (it tolerates
// hour 0).
var clockPattern = regexp.MustCompile(`^(0?[1-9]|1[0-2]):[0-5]\d [AP]M$`)

// To24Hour converts a 12-hour clock label such as "7:00 PM" or "07:00 PM"
// to zero-padded 24-hour form ("19:00"). Midnight maps to "00:00" and
// noon to "12:00".
// The boolean is false when the input does not parse as a valid 12-hour
// time; callers drop that single showtime rather than failing the batch.
func To24Hour(text string) (string, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(text))
	if !clockPattern.MatchString(cleaned) {
		return "", false
	}
	parsed, err := time.Parse("3:04 PM", cleaned)
	if err != nil {
		return "", false
	}
	return parsed.Format("15:04"), true
}
