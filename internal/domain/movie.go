package domain

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used by the catalog and the API.
const DateLayout = "2006-01-02"

// Movie is the catalog's summary record for a single title.
type Movie struct {
	CatalogID        int64
	LocalID          string
	SyntheticKey     string
	Title            string
	PosterPath       string
	Rating           *float64
	ReleaseDate      *time.Time
	Popularity       *float64
	Genres           []string
	OriginalLanguage string
}

// Key identifies the movie inside a result set. The catalog id wins over the
// local id; the synthetic key is only set when both are missing.
func (m Movie) Key() string {
	switch {
	case m.CatalogID != 0:
		return strconv.FormatInt(m.CatalogID, 10)
	case m.LocalID != "":
		return m.LocalID
	default:
		return m.SyntheticKey
	}
}

// RatingOrZero returns the rating, treating a missing value as 0.
func (m Movie) RatingOrZero() float64 {
	if m.Rating == nil {
		return 0
	}
	return *m.Rating
}

// PopularityOrZero returns the popularity, treating a missing value as 0.
func (m Movie) PopularityOrZero() float64 {
	if m.Popularity == nil {
		return 0
	}
	return *m.Popularity
}

// ReleasedOrEpoch returns the release date, or the Unix epoch when unknown.
func (m Movie) ReleasedOrEpoch() time.Time {
	if m.ReleaseDate == nil {
		return time.Unix(0, 0).UTC()
	}
	return *m.ReleaseDate
}

// HasGenre reports whether the genre list contains name (case-insensitive).
// A movie without a genre list never matches.
func (m Movie) HasGenre(name string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(strings.TrimSpace(g), name) {
			return true
		}
	}
	return false
}

// ReleasedBetween reports whether the release date is known and inside [from, to].
func (m Movie) ReleasedBetween(from, to time.Time) bool {
	if m.ReleaseDate == nil {
		return false
	}
	d := *m.ReleaseDate
	return !d.Before(from) && !d.After(to)
}
