// Package discovery turns the paginated catalog into the popular, trending and
// search views.
package discovery

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Clark-Hu/reelscout/internal/catalog"
	"github.com/Clark-Hu/reelscout/internal/domain"
	"github.com/Clark-Hu/reelscout/internal/metrics"
)

const (
	popularWindowMonths = 10

	trendingWindowDays   = 30
	trendingFallbackDays = 60
	trendingMinimum      = 20
	trendingMaximum      = 30

	genreTarget   = 30
	genreMaxPages = 3
)

// Query is one search request as typed by the user.
type Query struct {
	Text  string
	Genre string
	Sort  SortMode
}

// Aggregator pages through the catalog and derives the discovery views.
// Pages are fetched sequentially; each stop condition depends on the page before.
type Aggregator struct {
	catalog catalog.Client
	logger  *log.Logger
	now     func() time.Time

	language         string
	popularTarget    int
	popularMaxPages  int
	trendingMaxPages int
}

// NewAggregator builds an Aggregator over the given catalog client.
func NewAggregator(client catalog.Client, opts ...Option) *Aggregator {
	a := &Aggregator{
		catalog:          client,
		logger:           log.Default(),
		now:              time.Now,
		language:         defaultLanguage,
		popularTarget:    defaultPopularTarget,
		popularMaxPages:  defaultPopularMaxPages,
		trendingMaxPages: defaultTrendingMaxPages,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PopularRecent returns releases from the last ten months, newest first.
func (a *Aggregator) PopularRecent(ctx context.Context) ([]domain.Movie, error) {
	const view = "popular"

	var acc accumulator
	partial := false
	for page := 1; page <= a.popularMaxPages; page++ {
		p, err := a.catalog.ListByRecency(ctx, page)
		if err != nil {
			if page == 1 {
				return nil, a.fail(view, err)
			}
			a.logger.Printf("discovery: %s stopped at page %d: %v", view, page, err)
			partial = true
			break
		}
		acc.add(p.Items)
		if len(p.Items) == 0 || !p.HasMore || acc.len() >= 2*a.popularTarget {
			break
		}
	}

	now := a.now()
	from := now.AddDate(0, -popularWindowMonths, 0)
	recent := make([]domain.Movie, 0, acc.len())
	for _, m := range acc.items {
		if m.ReleasedBetween(from, now) {
			recent = append(recent, m)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].ReleaseDate.After(*recent[j].ReleaseDate)
	})

	// The page ceiling bounds the list; it is never cut below the target.
	a.record(view, partial, len(recent))
	return recent, nil
}

// Trending returns recent releases ranked by TrendingScore. Ties keep the
// order the catalog returned them in, so equal scores may reorder between
// providers.
func (a *Aggregator) Trending(ctx context.Context) ([]domain.Movie, error) {
	const view = "trending"

	var acc accumulator
	partial := false
	for page := 1; page <= a.trendingMaxPages; page++ {
		p, err := a.catalog.ListByRecency(ctx, page)
		if err != nil {
			if page == 1 {
				return nil, a.fail(view, err)
			}
			a.logger.Printf("discovery: %s stopped at page %d: %v", view, page, err)
			partial = true
			break
		}
		acc.add(p.Items)
	}

	now := a.now()
	ranked := rankTrending(acc.items, now, trendingWindowDays)
	if len(ranked) >= trendingMinimum {
		if len(ranked) > trendingMaximum {
			ranked = ranked[:trendingMaximum]
		}
		a.record(view, partial, len(ranked))
		return ranked, nil
	}

	widened := rankTrending(acc.items, now, trendingFallbackDays)
	a.record(view, partial, len(widened))
	return widened, nil
}

func rankTrending(items []domain.Movie, now time.Time, windowDays int) []domain.Movie {
	type scored struct {
		movie domain.Movie
		score float64
	}
	from := now.AddDate(0, 0, -windowDays)
	candidates := make([]scored, 0, len(items))
	for _, m := range items {
		if m.ReleasedBetween(from, now) {
			candidates = append(candidates, scored{movie: m, score: TrendingScore(m, now)})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]domain.Movie, len(candidates))
	for i, c := range candidates {
		out[i] = c.movie
	}
	return out
}

// Search fetches and orders the results for q.
func (a *Aggregator) Search(ctx context.Context, q Query) ([]domain.Movie, error) {
	if _, err := SortMovies(nil, q.Sort); err != nil {
		return nil, err
	}
	items, err := a.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return SortMovies(items, q.Sort)
}

// Fetch returns the results for q in provider order, so they can be re-sorted
// later without another round trip. A text query wins over the genre: the
// genre then only filters the text results.
func (a *Aggregator) Fetch(ctx context.Context, q Query) ([]domain.Movie, error) {
	const view = "search"

	text := strings.TrimSpace(q.Text)
	genre := ""
	if strings.TrimSpace(q.Genre) != "" {
		genre = catalog.CanonicalGenre(q.Genre)
		if genre == "" {
			return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownGenre, q.Genre)
		}
	}

	switch {
	case text != "":
		p, err := a.catalog.Search(ctx, text, a.language, 1)
		if err != nil {
			return nil, a.fail(view, err)
		}
		var acc accumulator
		acc.add(p.Items)
		items := acc.items
		if genre != "" {
			items = make([]domain.Movie, 0, acc.len())
			for _, m := range acc.items {
				if m.HasGenre(genre) {
					items = append(items, m)
				}
			}
		}
		a.record(view, false, len(items))
		return items, nil

	case genre != "":
		id, err := catalog.GenreID(genre)
		if err != nil {
			return nil, err
		}
		var acc accumulator
		partial := false
		for page := 1; page <= genreMaxPages && acc.len() < genreTarget; page++ {
			p, err := a.catalog.ListByGenre(ctx, id, page, a.language)
			if err != nil {
				if page == 1 {
					return nil, a.fail(view, err)
				}
				a.logger.Printf("discovery: genre %s stopped at page %d: %v", genre, page, err)
				partial = true
				break
			}
			if len(p.Items) == 0 {
				break
			}
			acc.add(p.Items)
		}
		items := acc.items
		if len(items) > genreTarget {
			items = items[:genreTarget]
		}
		a.record(view, partial, len(items))
		return items, nil

	default:
		return []domain.Movie{}, nil
	}
}

func (a *Aggregator) fail(view string, err error) error {
	a.logger.Printf("discovery: %s failed: %v", view, err)
	metrics.RecordAggregation(view, "failed", 0)
	wrapped := fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	sentry.CaptureException(wrapped)
	return wrapped
}

func (a *Aggregator) record(view string, partial bool, items int) {
	outcome := "ok"
	if partial {
		outcome = "partial"
	}
	metrics.RecordAggregation(view, outcome, items)
}

// accumulator collects pages while dropping repeated keys.
type accumulator struct {
	items []domain.Movie
	seen  map[string]struct{}
}

func (a *accumulator) add(items []domain.Movie) {
	if a.seen == nil {
		a.seen = make(map[string]struct{}, len(items))
		a.items = make([]domain.Movie, 0, len(items))
	}
	for _, m := range items {
		key := m.Key()
		if _, dup := a.seen[key]; dup {
			continue
		}
		a.seen[key] = struct{}{}
		a.items = append(a.items, m)
	}
}

func (a *accumulator) len() int {
	return len(a.items)
}
