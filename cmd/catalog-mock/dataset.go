package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Clark-Hu/reelscout/internal/catalog"
)

const pageSize = 20

type movieEntry struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	PosterPath       string  `json:"poster_path,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language,omitempty"`
}

type pageResponse struct {
	Page         int          `json:"page"`
	Results      []movieEntry `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

var titleWords = []string{
	"Godzilla", "Titanic", "Rocky", "Heat", "Jaws", "Alien", "Dune", "Bahubali", "KGF", "Pushpa",
}

// loadDataset reads a JSON array of movie entries.
func loadDataset(path string) ([]movieEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mock data: %w", err)
	}
	var entries []movieEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse mock data: %w", err)
	}
	return entries, nil
}

// generateDataset builds n movies spread over roughly two years before now,
// so the popular and trending windows always have content.
func generateDataset(n int, now time.Time) []movieEntry {
	genres := catalog.Genres()
	entries := make([]movieEntry, 0, n)
	for i := 0; i < n; i++ {
		released := now.AddDate(0, 0, -(i*6 + 1))
		word := titleWords[i%len(titleWords)]
		entries = append(entries, movieEntry{
			ID:               int64(1000 + i),
			Title:            fmt.Sprintf("%s %d", word, i/len(titleWords)+1),
			PosterPath:       fmt.Sprintf("/poster-%d.jpg", 1000+i),
			VoteAverage:      float64(30+(i*37)%70) / 10,
			ReleaseDate:      released.Format("2006-01-02"),
			Popularity:       float64((i*53)%200) + 0.5,
			GenreIDs:         []int{genres[i%len(genres)].ID, genres[(i+3)%len(genres)].ID},
			OriginalLanguage: "en",
		})
	}
	return entries
}

func newestFirst(entries []movieEntry) []movieEntry {
	out := append([]movieEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReleaseDate > out[j].ReleaseDate
	})
	return out
}

func matchTitle(entries []movieEntry, query string) []movieEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]movieEntry, 0)
	if query == "" {
		return out
	}
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), query) {
			out = append(out, e)
		}
	}
	return out
}

func withGenre(entries []movieEntry, genreID int) []movieEntry {
	out := make([]movieEntry, 0)
	for _, e := range entries {
		for _, id := range e.GenreIDs {
			if id == genreID {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// paginate slices entries into 1-based pages of pageSize. Pages past the end
// are empty.
func paginate(entries []movieEntry, page int) pageResponse {
	if page < 1 {
		page = 1
	}
	total := (len(entries) + pageSize - 1) / pageSize
	resp := pageResponse{Page: page, TotalPages: total, TotalResults: len(entries), Results: []movieEntry{}}
	start := (page - 1) * pageSize
	if start >= len(entries) {
		return resp
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	resp.Results = entries[start:end]
	return resp
}
