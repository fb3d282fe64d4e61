package catalog

import (
	"errors"
	"testing"
)

func TestGenreID(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Action", 28},
		{"action", 28},
		{"  SCI-FI ", 878},
		{"Romance", 10749},
		{"Family", 10751},
	}
	for _, tt := range tests {
		got, err := GenreID(tt.name)
		if err != nil {
			t.Fatalf("GenreID(%q) error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("GenreID(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestGenreIDUnknown(t *testing.T) {
	_, err := GenreID("Western")
	if !errors.Is(err, ErrUnknownGenre) {
		t.Fatalf("expected ErrUnknownGenre, got %v", err)
	}
}

func TestGenreNameRoundTrip(t *testing.T) {
	for _, g := range Genres() {
		name, ok := GenreName(g.ID)
		if !ok || name != g.Name {
			t.Fatalf("GenreName(%d) = %q, %v", g.ID, name, ok)
		}
		if CanonicalGenre(g.Name) != g.Name {
			t.Fatalf("CanonicalGenre(%q) mismatch", g.Name)
		}
	}
	if _, ok := GenreName(99999); ok {
		t.Fatalf("unexpected name for unknown id")
	}
	if CanonicalGenre("documentary") != "" {
		t.Fatalf("unknown genre must canonicalise to empty")
	}
}

func TestGenresReturnsCopy(t *testing.T) {
	list := Genres()
	if len(list) != 11 {
		t.Fatalf("Genres() = %d entries, want 11", len(list))
	}
	list[0].Name = "Mutated"
	if Genres()[0].Name != "Action" {
		t.Fatalf("Genres() must not expose the backing table")
	}
}
