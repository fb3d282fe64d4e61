package discovery

import (
	"log"
	"time"
)

const (
	defaultLanguage         = "en-US"
	defaultPopularTarget    = 50
	defaultPopularMaxPages  = 10
	defaultTrendingMaxPages = 8
	defaultDebounce         = 500 * time.Millisecond
)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets the logger used for partial-failure reports.
func WithLogger(logger *log.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLanguage sets the language passed to search and genre endpoints.
func WithLanguage(language string) Option {
	return func(a *Aggregator) {
		a.language = language
	}
}

// WithPopularLimits sets the target count and page ceiling of PopularRecent.
func WithPopularLimits(target, maxPages int) Option {
	return func(a *Aggregator) {
		if target > 0 {
			a.popularTarget = target
		}
		if maxPages > 0 {
			a.popularMaxPages = maxPages
		}
	}
}

// WithTrendingMaxPages sets the fixed page budget of Trending.
func WithTrendingMaxPages(maxPages int) Option {
	return func(a *Aggregator) {
		if maxPages > 0 {
			a.trendingMaxPages = maxPages
		}
	}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce sets the quiet period before typed input triggers a search.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithRecorder sets where submitted search terms are recorded.
func WithRecorder(r Recorder) SessionOption {
	return func(s *Session) {
		s.recorder = r
	}
}
