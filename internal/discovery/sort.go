package discovery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Clark-Hu/reelscout/internal/domain"
)

// SortMode selects how search results are ordered.
type SortMode string

const (
	SortRelevance  SortMode = "relevance"
	SortRating     SortMode = "rating"
	SortDate       SortMode = "date"
	SortPopularity SortMode = "popularity"
)

// SortModes lists the accepted modes in display order.
func SortModes() []SortMode {
	return []SortMode{SortRelevance, SortRating, SortDate, SortPopularity}
}

// ParseSortMode accepts any casing; an empty value means relevance.
func ParseSortMode(value string) (SortMode, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return SortRelevance, nil
	}
	for _, mode := range SortModes() {
		if string(mode) == value {
			return mode, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, value)
}

// SortMovies returns a re-ordered copy of list; the input is never modified.
//
// Popularity sorts by rating: the search endpoints do not offer a separate
// popularity ordering, and callers rely on the two modes matching.
func SortMovies(list []domain.Movie, mode SortMode) ([]domain.Movie, error) {
	out := make([]domain.Movie, len(list))
	copy(out, list)

	switch mode {
	case SortRelevance, "":
	case SortRating, SortPopularity:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].RatingOrZero() > out[j].RatingOrZero()
		})
	case SortDate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ReleasedOrEpoch().After(out[j].ReleasedOrEpoch())
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSort, mode)
	}
	return out, nil
}
