package discovery

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Clark-Hu/reelscout/internal/catalog"
	"github.com/Clark-Hu/reelscout/internal/domain"
)

// Recorder stores committed search terms. recent.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, term string) []string
}

// SessionResult is one delivered search outcome.
type SessionResult struct {
	Query Query
	Items []domain.Movie
	Err   error
}

// Session is the state behind one search surface: typed text, the active
// genre and sort, a single debounce timer and a generation counter. Results
// from a run that has since been superseded are dropped.
//
// deliver is called with the session lock held, so it must not call back
// into the Session.
type Session struct {
	agg      *Aggregator
	deliver  func(SessionResult)
	recorder Recorder
	delay    time.Duration
	logger   *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	text       string
	genre      string
	sort       SortMode
	timer      *time.Timer
	inputSeq   uint64
	generation uint64
	inflight   int
	idle       *sync.Cond
	closed     bool

	last     []domain.Movie
	lastErr  error
	lastText string
	hasLast  bool
}

// NewSession starts an idle search session delivering results to deliver.
func NewSession(agg *Aggregator, deliver func(SessionResult), opts ...SessionOption) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		agg:     agg,
		deliver: deliver,
		delay:   defaultDebounce,
		logger:  agg.logger,
		ctx:     ctx,
		cancel:  cancel,
		sort:    SortRelevance,
	}
	s.idle = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input records the current text and (re)starts the debounce timer. Only the
// last text typed before a quiet period is searched.
func (s *Session) Input(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.text = text
	s.stopTimerLocked()
	s.inputSeq++
	seq := s.inputSeq
	s.timer = time.AfterFunc(s.delay, func() { s.fire(seq) })
}

// Submit searches text now, cancelling any pending debounced search. A
// non-empty term is recorded whether or not the fetch succeeds.
func (s *Session) Submit(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.text = text
	s.stopTimerLocked()
	gen, q := s.nextLocked()
	s.mu.Unlock()

	if term := strings.TrimSpace(text); term != "" && s.recorder != nil {
		s.recorder.Record(s.ctx, term)
	}
	go s.run(gen, q)
}

// SetGenre changes the genre filter and searches again immediately. An empty
// genre clears the filter.
func (s *Session) SetGenre(genre string) error {
	canonical := ""
	if strings.TrimSpace(genre) != "" {
		canonical = catalog.CanonicalGenre(genre)
		if canonical == "" {
			return fmt.Errorf("%w: %q", catalog.ErrUnknownGenre, genre)
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.genre = canonical
	s.stopTimerLocked()
	gen, q := s.nextLocked()
	s.mu.Unlock()

	go s.run(gen, q)
	return nil
}

// SetSort changes the ordering. The last result is re-delivered in the new
// order without another catalog request.
func (s *Session) SetSort(mode SortMode) error {
	if _, err := SortMovies(nil, mode); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.sort = mode
	if s.hasLast {
		s.deliverLocked(Query{Text: s.lastText, Genre: s.genre, Sort: mode}, s.last, s.lastErr)
	}
	return nil
}

// Flush runs a pending debounced search now and waits until every started
// search has been delivered or dropped.
func (s *Session) Flush() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.stopTimerLocked()
		gen, q := s.nextLocked()
		s.mu.Unlock()
		s.run(gen, q)
		s.mu.Lock()
	}
	for s.inflight > 0 && !s.closed {
		s.idle.Wait()
	}
	s.mu.Unlock()
}

// Close stops the timer and drops anything still in flight.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.cancel()
	s.idle.Broadcast()
}

func (s *Session) fire(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.inputSeq {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	gen, q := s.nextLocked()
	s.mu.Unlock()

	s.run(gen, q)
}

func (s *Session) run(gen uint64, q Query) {
	items, err := s.agg.Fetch(s.ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	defer s.idle.Broadcast()
	if s.closed || gen != s.generation {
		return
	}
	s.last, s.lastErr, s.lastText, s.hasLast = items, err, q.Text, true
	q.Sort = s.sort
	s.deliverLocked(q, items, err)
}

func (s *Session) deliverLocked(q Query, items []domain.Movie, err error) {
	if err == nil {
		sorted, sortErr := SortMovies(items, q.Sort)
		if sortErr != nil {
			s.logger.Printf("discovery: session sort %q: %v", q.Sort, sortErr)
		} else {
			items = sorted
		}
	}
	if s.deliver != nil {
		s.deliver(SessionResult{Query: q, Items: items, Err: err})
	}
}

// nextLocked starts a new generation and snapshots the query it searches.
// Every caller hands the result to run.
func (s *Session) nextLocked() (uint64, Query) {
	s.inflight++
	s.generation++
	return s.generation, Query{Text: s.text, Genre: s.genre, Sort: s.sort}
}

// stopTimerLocked also invalidates a timer callback that already fired and is
// waiting for the lock.
func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.inputSeq++
}
