package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestRecentSearchesLifecycle(t *testing.T) {
	srv := buildTestServer(t, &stubCatalog{})

	for _, term := range []string{"Godzilla", "RRR", "godzilla "} {
		body, _ := json.Marshal(recentRequest{Term: term})
		rec := doRequest(srv, http.MethodPost, "/recent-searches", body, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("POST %q status = %d (body %s)", term, rec.Code, rec.Body.String())
		}
	}

	rec := doRequest(srv, http.MethodGet, "/recent-searches", nil, "")
	var got recentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(got.Items, ",") != "godzilla,rrr" {
		t.Fatalf("items = %v, want [godzilla rrr]", got.Items)
	}

	rec = doRequest(srv, http.MethodDelete, "/recent-searches", nil, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", rec.Code)
	}

	rec = doRequest(srv, http.MethodGet, "/recent-searches", nil, "")
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("list after clear = %s", rec.Body.String())
	}
}

func TestRecordRecentValidation(t *testing.T) {
	srv := buildTestServer(t, &stubCatalog{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "blank term", body: `{"term":"   "}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "missing body", body: ``, wantStatus: http.StatusUnprocessableEntity},
		{name: "malformed json", body: `{"term":`, wantStatus: http.StatusUnprocessableEntity},
		{name: "wrong type", body: `{"term":42}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown field", body: `{"term":"x","extra":true}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodPost, "/recent-searches", []byte(tt.body), "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var errResp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if errResp.Code != "VALIDATION_ERROR" {
				t.Fatalf("code = %s, want VALIDATION_ERROR", errResp.Code)
			}
		})
	}

	rec := doRequest(srv, http.MethodGet, "/recent-searches", nil, "")
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("rejected requests must not record anything: %s", rec.Body.String())
	}
}
