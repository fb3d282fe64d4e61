package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Clark-Hu/reelscout/internal/domain"
)

// listKeys are the envelope fields the backends have been seen to put lists under.
var listKeys = []string{"items", "results", "data", "movies", "reviews"}

// decodePage maps any list response into a Page. ok is false when the payload
// carries no recognisable list; that is reported as an empty page, not an error.
func decodePage(body []byte) (page Page, ok bool, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Page{}, false, nil
	}

	switch trimmed[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return Page{}, false, fmt.Errorf("decode catalog list: %w", err)
		}
		items := convertMovies(raw)
		return Page{Items: items, HasMore: len(items) > 0}, true, nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return Page{}, false, fmt.Errorf("decode catalog envelope: %w", err)
		}
		for _, key := range listKeys {
			rawList, found := envelope[key]
			if !found || !isArray(rawList) {
				continue
			}
			var raw []json.RawMessage
			if err := json.Unmarshal(rawList, &raw); err != nil {
				return Page{}, false, fmt.Errorf("decode catalog %s: %w", key, err)
			}
			items := convertMovies(raw)
			return Page{Items: items, HasMore: hasMore(trimmed, envelope, len(items))}, true, nil
		}
		return Page{}, false, nil
	default:
		// A bare scalar is valid JSON without a list: an anomaly, not a failure.
		if !json.Valid(trimmed) {
			return Page{}, false, fmt.Errorf("decode catalog response: malformed payload")
		}
		return Page{}, false, nil
	}
}

func isArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}

type paginationPayload struct {
	Page       *int  `json:"page"`
	TotalPages *int  `json:"totalPages"`
	TotalSnake *int  `json:"total_pages"`
	HasMore    *bool `json:"hasMore"`
	HasMoreSn  *bool `json:"has_more"`
}

func (p paginationPayload) hasMore() (bool, bool) {
	if p.HasMore != nil {
		return *p.HasMore, true
	}
	if p.HasMoreSn != nil {
		return *p.HasMoreSn, true
	}
	total := p.TotalPages
	if total == nil {
		total = p.TotalSnake
	}
	if p.Page != nil && total != nil {
		return *p.Page < *total, true
	}
	return false, false
}

func hasMore(body []byte, envelope map[string]json.RawMessage, n int) bool {
	if n == 0 {
		return false
	}
	if nested, found := envelope["pagination"]; found {
		var p paginationPayload
		if err := json.Unmarshal(nested, &p); err == nil {
			if more, known := p.hasMore(); known {
				return more
			}
		}
	}
	var p paginationPayload
	if err := json.Unmarshal(body, &p); err == nil {
		if more, known := p.hasMore(); known {
			return more
		}
	}
	return true
}

type movieRecord struct {
	ID                    json.RawMessage `json:"id"`
	ObjectID              json.RawMessage `json:"_id"`
	TMDBID                json.RawMessage `json:"tmdbId"`
	TMDBIDSnake           json.RawMessage `json:"tmdb_id"`
	Title                 string          `json:"title"`
	Name                  string          `json:"name"`
	PosterPath            string          `json:"poster_path"`
	PosterPathCamel       string          `json:"posterPath"`
	Poster                string          `json:"poster"`
	VoteAverage           json.RawMessage `json:"vote_average"`
	VoteAverageCamel      json.RawMessage `json:"voteAverage"`
	Rating                json.RawMessage `json:"rating"`
	ReleaseDate           string          `json:"release_date"`
	ReleaseDateCamel      string          `json:"releaseDate"`
	Popularity            json.RawMessage `json:"popularity"`
	Genres                json.RawMessage `json:"genres"`
	GenreIDs              []int           `json:"genre_ids"`
	OriginalLanguage      string          `json:"original_language"`
	OriginalLanguageCamel string          `json:"originalLanguage"`
}

func convertMovies(raw []json.RawMessage) []domain.Movie {
	items := make([]domain.Movie, 0, len(raw))
	for _, r := range raw {
		var rec movieRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			continue
		}
		items = append(items, convertMovie(rec))
	}
	return items
}

func convertMovie(rec movieRecord) domain.Movie {
	m := domain.Movie{
		Title:            firstNonEmpty(rec.Title, rec.Name),
		PosterPath:       firstNonEmpty(rec.PosterPath, rec.PosterPathCamel, rec.Poster),
		Rating:           firstFloat(rec.VoteAverage, rec.Rating, rec.VoteAverageCamel),
		ReleaseDate:      parseDate(firstNonEmpty(rec.ReleaseDate, rec.ReleaseDateCamel)),
		Popularity:       firstFloat(rec.Popularity),
		Genres:           parseGenres(rec.Genres, rec.GenreIDs),
		OriginalLanguage: firstNonEmpty(rec.OriginalLanguage, rec.OriginalLanguageCamel),
	}

	for _, raw := range []json.RawMessage{rec.TMDBID, rec.TMDBIDSnake, rec.ID} {
		if id, ok := parseCatalogID(raw); ok {
			m.CatalogID = id
			break
		}
	}
	for _, raw := range []json.RawMessage{rec.ObjectID, rec.ID} {
		if local := parseLocalID(raw); local != "" {
			m.LocalID = local
			break
		}
	}
	if m.CatalogID == 0 && m.LocalID == "" {
		m.SyntheticKey = "tmp-" + uuid.NewString()
	}
	return m
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// firstFloat returns the first value that parses as a number or numeric string.
func firstFloat(values ...json.RawMessage) *float64 {
	for _, raw := range values {
		if len(raw) == 0 {
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			if f, err := n.Float64(); err == nil {
				return &f
			}
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func parseCatalogID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if id, err := n.Int64(); err == nil && id > 0 {
			return id, true
		}
		return 0, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}

// parseLocalID accepts a non-numeric string id or a {"$oid": "..."} object.
func parseLocalID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ""
		}
		return s
	}
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(raw, &oid); err == nil {
		return strings.TrimSpace(oid.OID)
	}
	return ""
}

func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if t, err := time.Parse(domain.DateLayout, value); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	if len(value) >= len(domain.DateLayout) {
		if t, err := time.Parse(domain.DateLayout, value[:len(domain.DateLayout)]); err == nil {
			return &t
		}
	}
	return nil
}

// parseGenres accepts ["Action"], [{"id":28,"name":"Action"}] or [28]; it
// falls back to genre_ids. nil means the record carried no genre list at all.
func parseGenres(raw json.RawMessage, ids []int) []string {
	if len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		var names []string
		if err := json.Unmarshal(raw, &names); err == nil {
			return names
		}
		var objects []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &objects); err == nil {
			out := make([]string, 0, len(objects))
			for _, o := range objects {
				// Known ids use the table name; providers spell some differently.
				if name, ok := GenreName(o.ID); ok {
					out = append(out, name)
				} else if name := strings.TrimSpace(o.Name); name != "" {
					out = append(out, name)
				}
			}
			return out
		}
		var numeric []int
		if err := json.Unmarshal(raw, &numeric); err == nil {
			ids = numeric
		}
	}
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := GenreName(id); ok {
			out = append(out, name)
		}
	}
	return out
}
