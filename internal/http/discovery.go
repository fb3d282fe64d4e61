package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Clark-Hu/reelscout/internal/catalog"
	"github.com/Clark-Hu/reelscout/internal/discovery"
	"github.com/Clark-Hu/reelscout/internal/domain"
)

// clientIDHeader scopes recent searches to one caller.
const clientIDHeader = "X-Client-Id"

type movieResponse struct {
	ID               string   `json:"id"`
	CatalogID        *int64   `json:"catalogId,omitempty"`
	LocalID          string   `json:"localId,omitempty"`
	Title            string   `json:"title"`
	PosterPath       string   `json:"posterPath,omitempty"`
	Rating           *float64 `json:"rating"`
	ReleaseDate      *string  `json:"releaseDate"`
	Popularity       *float64 `json:"popularity"`
	Genres           []string `json:"genres"`
	OriginalLanguage string   `json:"originalLanguage,omitempty"`
}

// listResponse always carries items; Error is the user-facing message when
// the catalog could not be reached at all.
type listResponse struct {
	Items []movieResponse `json:"items"`
	Error *string         `json:"error"`
}

type genreListResponse struct {
	Items []catalog.Genre `json:"items"`
	Sorts []string        `json:"sorts"`
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	items, err := s.aggregator.PopularRecent(r.Context())
	s.respondList(w, items, err)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	items, err := s.aggregator.Trending(r.Context())
	s.respondList(w, items, err)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchParams(r.URL.Query())
	if err != nil {
		s.respondQueryError(w, err)
		return
	}

	if q.Text != "" && s.recent != nil {
		s.recent.For(r.Header.Get(clientIDHeader)).Record(r.Context(), q.Text)
	}

	items, err := s.aggregator.Search(r.Context(), q)
	if err != nil && !errors.Is(err, discovery.ErrCatalogUnavailable) {
		s.respondQueryError(w, err)
		return
	}
	s.respondList(w, items, err)
}

func (s *Server) handleGenres(w http.ResponseWriter, _ *http.Request) {
	modes := discovery.SortModes()
	sorts := make([]string, 0, len(modes))
	for _, m := range modes {
		sorts = append(sorts, string(m))
	}
	s.respondJSON(w, http.StatusOK, genreListResponse{Items: catalog.Genres(), Sorts: sorts})
}

// parseSearchParams validates q, genre and sort. Blank values mean "not set".
func parseSearchParams(values url.Values) (discovery.Query, error) {
	q := discovery.Query{
		Text: strings.TrimSpace(values.Get("q")),
	}

	if raw := strings.TrimSpace(values.Get("genre")); raw != "" {
		canonical := catalog.CanonicalGenre(raw)
		if canonical == "" {
			return discovery.Query{}, catalog.ErrUnknownGenre
		}
		q.Genre = canonical
	}

	mode, err := discovery.ParseSortMode(values.Get("sort"))
	if err != nil {
		return discovery.Query{}, err
	}
	q.Sort = mode
	return q, nil
}

func (s *Server) respondQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownGenre):
		s.respondError(w, http.StatusBadRequest, "INVALID_GENRE", "Unknown genre")
	case errors.Is(err, discovery.ErrUnknownSort):
		s.respondError(w, http.StatusBadRequest, "INVALID_SORT", "Unknown sort mode")
	default:
		s.logger.Printf("discover: unexpected error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

// respondList renders a view. A total catalog failure still answers with an
// empty list plus the user-facing message.
func (s *Server) respondList(w http.ResponseWriter, items []domain.Movie, err error) {
	resp := listResponse{Items: make([]movieResponse, 0, len(items))}
	for _, m := range items {
		resp.Items = append(resp.Items, toMovieResponse(m))
	}
	if err != nil {
		msg := discovery.UserMessage
		resp.Error = &msg
		s.respondJSON(w, http.StatusBadGateway, resp)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func toMovieResponse(m domain.Movie) movieResponse {
	resp := movieResponse{
		ID:               m.Key(),
		LocalID:          m.LocalID,
		Title:            m.Title,
		PosterPath:       m.PosterPath,
		Rating:           m.Rating,
		Popularity:       m.Popularity,
		Genres:           m.Genres,
		OriginalLanguage: m.OriginalLanguage,
	}
	if m.CatalogID != 0 {
		id := m.CatalogID
		resp.CatalogID = &id
	}
	if m.ReleaseDate != nil {
		d := m.ReleaseDate.Format(domain.DateLayout)
		resp.ReleaseDate = &d
	}
	if resp.Genres == nil {
		resp.Genres = []string{}
	}
	return resp
}
