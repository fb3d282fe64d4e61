package domain

import (
	"testing"
	"time"
)

func TestMovieKey(t *testing.T) {
	tests := []struct {
		name  string
		movie Movie
		want  string
	}{
		{"catalog id wins", Movie{CatalogID: 550, LocalID: "abc", SyntheticKey: "s"}, "550"},
		{"local id fallback", Movie{LocalID: "64f1c0", SyntheticKey: "s"}, "64f1c0"},
		{"synthetic fallback", Movie{SyntheticKey: "tmp-1"}, "tmp-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.movie.Key(); got != tt.want {
				t.Fatalf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMovieHasGenre(t *testing.T) {
	m := Movie{Genres: []string{"Action", " Sci-Fi "}}
	if !m.HasGenre("action") {
		t.Fatalf("expected case-insensitive match")
	}
	if !m.HasGenre("Sci-Fi") {
		t.Fatalf("expected trimmed match")
	}
	if m.HasGenre("Drama") {
		t.Fatalf("unexpected match for Drama")
	}
	if (Movie{}).HasGenre("Action") {
		t.Fatalf("movie without genres must not match")
	}
}

func TestMovieReleasedBetween(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inside := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	edge := from
	outside := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	if !(Movie{ReleaseDate: &inside}).ReleasedBetween(from, to) {
		t.Fatalf("inside date rejected")
	}
	if !(Movie{ReleaseDate: &edge}).ReleasedBetween(from, to) {
		t.Fatalf("lower bound must be inclusive")
	}
	if (Movie{ReleaseDate: &outside}).ReleasedBetween(from, to) {
		t.Fatalf("outside date accepted")
	}
	if (Movie{}).ReleasedBetween(from, to) {
		t.Fatalf("missing date accepted")
	}
}

func TestMovieDefaults(t *testing.T) {
	var m Movie
	if m.RatingOrZero() != 0 || m.PopularityOrZero() != 0 {
		t.Fatalf("missing numbers should default to 0")
	}
	if !m.ReleasedOrEpoch().Equal(time.Unix(0, 0)) {
		t.Fatalf("missing date should default to epoch, got %v", m.ReleasedOrEpoch())
	}
}
