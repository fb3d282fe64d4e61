package discovery_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Clark-Hu/reelscout/internal/catalog"
	"github.com/Clark-Hu/reelscout/internal/domain"
)

var errUpstream = errors.New("upstream exploded")

var quietLogger = log.New(io.Discard, "", 0)

// fixedNow is the clock used by every aggregator test.
var fixedNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

// fakeCatalog serves canned pages and records every call.
type fakeCatalog struct {
	mu sync.Mutex

	recency    map[int]catalog.Page
	recencyErr map[int]error
	genre      map[int]catalog.Page
	genreErr   map[int]error
	search     map[string]catalog.Page
	searchErr  error
	// gates blocks a search for the given query until the channel is closed.
	gates map[string]chan struct{}

	recencyCalls []int
	genreCalls   []int
	searchCalls  []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		recency:    map[int]catalog.Page{},
		recencyErr: map[int]error{},
		genre:      map[int]catalog.Page{},
		genreErr:   map[int]error{},
		search:     map[string]catalog.Page{},
		gates:      map[string]chan struct{}{},
	}
}

func (f *fakeCatalog) ListByRecency(_ context.Context, page int) (catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recencyCalls = append(f.recencyCalls, page)
	if err := f.recencyErr[page]; err != nil {
		return catalog.Page{}, err
	}
	return f.recency[page], nil
}

func (f *fakeCatalog) Search(ctx context.Context, query, _ string, _ int) (catalog.Page, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	gate := f.gates[query]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return catalog.Page{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return catalog.Page{}, f.searchErr
	}
	return f.search[query], nil
}

func (f *fakeCatalog) ListByGenre(_ context.Context, _ int, page int, _ string) (catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genreCalls = append(f.genreCalls, page)
	if err := f.genreErr[page]; err != nil {
		return catalog.Page{}, err
	}
	return f.genre[page], nil
}

func (f *fakeCatalog) searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.searchCalls))
	copy(out, f.searchCalls)
	return out
}

func movie(id int64, daysAgo int, rating, popularity float64, genres ...string) domain.Movie {
	release := time.Date(fixedNow.Year(), fixedNow.Month(), fixedNow.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
	m := domain.Movie{
		CatalogID:   id,
		Title:       fmt.Sprintf("movie-%d", id),
		ReleaseDate: &release,
		Rating:      &rating,
		Popularity:  &popularity,
	}
	if len(genres) > 0 {
		m.Genres = genres
	}
	return m
}

// moviesReleased returns n movies with consecutive ids starting at firstID.
func moviesReleased(firstID int64, n, daysAgo int) []domain.Movie {
	out := make([]domain.Movie, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, movie(firstID+int64(i), daysAgo, 5, 10))
	}
	return out
}

func keys(items []domain.Movie) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.Key()
	}
	return out
}
