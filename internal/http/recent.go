package httpserver

import (
	"net/http"
	"strings"
)

type recentRequest struct {
	Term string `json:"term"`
}

type recentResponse struct {
	Items []string `json:"items"`
}

func (s *Server) handleListRecent(w http.ResponseWriter, r *http.Request) {
	items := s.recent.For(r.Header.Get(clientIDHeader)).List(r.Context())
	s.respondJSON(w, http.StatusOK, recentResponse{Items: nonNil(items)})
}

func (s *Server) handleRecordRecent(w http.ResponseWriter, r *http.Request) {
	var req recentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.Term) == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "term is required")
		return
	}
	items := s.recent.For(r.Header.Get(clientIDHeader)).Record(r.Context(), req.Term)
	s.respondJSON(w, http.StatusOK, recentResponse{Items: nonNil(items)})
}

func (s *Server) handleClearRecent(w http.ResponseWriter, r *http.Request) {
	if err := s.recent.For(r.Header.Get(clientIDHeader)).Clear(r.Context()); err != nil {
		s.logger.Printf("recent: clear failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unable to clear recent searches")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
