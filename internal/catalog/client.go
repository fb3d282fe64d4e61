package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Clark-Hu/reelscout/internal/domain"
	"github.com/Clark-Hu/reelscout/internal/metrics"
)

const maxResponseBody = 8 << 20 // 8 MiB

// Page is the canonical shape every list endpoint is normalized into.
type Page struct {
	Items   []domain.Movie
	HasMore bool
}

// Client defines the contract for paging through the upstream movie catalog.
type Client interface {
	ListByRecency(ctx context.Context, page int) (Page, error)
	Search(ctx context.Context, query, language string, page int) (Page, error)
	ListByGenre(ctx context.Context, genreID, page int, language string) (Page, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

// NewHTTPClient constructs a new HTTP-backed catalog client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse catalog url: %q is not absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost:   4,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// ListByRecency returns one page of the catalog ordered by release date.
func (c *HTTPClient) ListByRecency(ctx context.Context, page int) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("sort_by", "release_date.desc")
	return c.get(ctx, "recency", "/movies", q)
}

// Search runs the catalog's full-text search.
func (c *HTTPClient) Search(ctx context.Context, query, language string, page int) (Page, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	if language != "" {
		q.Set("language", language)
	}
	return c.get(ctx, "search", "/movies/search", q)
}

// ListByGenre returns one page of movies tagged with the provider genre id.
func (c *HTTPClient) ListByGenre(ctx context.Context, genreID, page int, language string) (Page, error) {
	q := url.Values{}
	q.Set("with_genres", strconv.Itoa(genreID))
	q.Set("page", strconv.Itoa(page))
	if language != "" {
		q.Set("language", language)
	}
	return c.get(ctx, "genre", "/movies/discover", q)
}

func (c *HTTPClient) get(ctx context.Context, endpoint, path string, q url.Values) (page Page, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordCatalogRequest(endpoint, err, time.Since(start))
	}()

	rel := &url.URL{Path: c.baseURL.Path + path, RawQuery: q.Encode()}
	target := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Page{}, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("catalog %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		if err != nil {
			return Page{}, fmt.Errorf("read catalog response: %w", err)
		}
		page, ok, err := decodePage(body)
		if err != nil {
			return Page{}, err
		}
		if !ok {
			c.logger.Printf("catalog: %s %s returned no recognisable list, treating as empty", endpoint, q.Get("page"))
		}
		return page, nil
	case resp.StatusCode == http.StatusNotFound:
		// Some backends answer 404 past the last page.
		return Page{}, nil
	default:
		c.logger.Printf("catalog: unexpected status %d for %s page %s", resp.StatusCode, endpoint, q.Get("page"))
		return Page{}, &HTTPStatusError{URL: target.String(), StatusCode: resp.StatusCode}
	}
}
