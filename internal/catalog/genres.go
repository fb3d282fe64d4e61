package catalog

import (
	"fmt"
	"strings"
)

// Genre pairs a display name with the provider's numeric id.
type Genre struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// genreTable must stay in sync with the provider's genre ids.
var genreTable = []Genre{
	{Name: "Action", ID: 28},
	{Name: "Drama", ID: 18},
	{Name: "Comedy", ID: 35},
	{Name: "Romance", ID: 10749},
	{Name: "Thriller", ID: 53},
	{Name: "Horror", ID: 27},
	{Name: "Family", ID: 10751},
	{Name: "Adventure", ID: 12},
	{Name: "Crime", ID: 80},
	{Name: "Sci-Fi", ID: 878},
	{Name: "Fantasy", ID: 14},
}

// Genres returns a copy of the genre table in display order.
func Genres() []Genre {
	out := make([]Genre, len(genreTable))
	copy(out, genreTable)
	return out
}

// GenreID resolves a genre name (case-insensitive) to the provider id.
func GenreID(name string) (int, error) {
	name = strings.TrimSpace(name)
	for _, g := range genreTable {
		if strings.EqualFold(g.Name, name) {
			return g.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGenre, name)
}

// CanonicalGenre returns the table spelling of name, or "" when unknown.
func CanonicalGenre(name string) string {
	name = strings.TrimSpace(name)
	for _, g := range genreTable {
		if strings.EqualFold(g.Name, name) {
			return g.Name
		}
	}
	return ""
}

// GenreName maps a provider id back to its display name.
func GenreName(id int) (string, bool) {
	for _, g := range genreTable {
		if g.ID == id {
			return g.Name, true
		}
	}
	return "", false
}
