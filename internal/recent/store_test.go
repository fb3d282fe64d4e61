package recent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"reflect"
	"sync"
	"testing"

	"github.com/Clark-Hu/reelscout/internal/kv"
)

var quiet = log.New(io.Discard, "", 0)

// flakyKV wraps a memory store and fails every call once broken is set.
type flakyKV struct {
	inner  *kv.Memory
	mu     sync.Mutex
	broken bool
	calls  int
}

var errBackendDown = errors.New("backend down")

func (f *flakyKV) fail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.broken {
		return errBackendDown
	}
	return nil
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := f.fail(); err != nil {
		return "", false, err
	}
	return f.inner.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.inner.Set(ctx, key, value)
}

func (f *flakyKV) Remove(ctx context.Context, key string) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.inner.Remove(ctx, key)
}

func TestRecordDedupAndCap(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := NewStore(backend, DefaultKey, WithLogger(quiet))

	inputs := []string{
		"godzilla", "rrr", "godzilla", "pushpa", "kgf", "bahubali", "dune",
		"alien", "jaws", "heat", "rocky", "titanic", "up", "  GODZILLA ",
	}
	for _, term := range inputs {
		s.Record(ctx, term)
	}

	want := []string{"godzilla", "up", "titanic", "rocky", "heat", "jaws", "alien", "dune", "bahubali", "kgf"}
	got := s.List(ctx)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}

	raw, ok, _ := backend.Get(ctx, DefaultKey)
	if !ok {
		t.Fatalf("list not persisted")
	}
	if raw != `["godzilla","up","titanic","rocky","heat","jaws","alien","dune","bahubali","kgf"]` {
		t.Fatalf("persisted payload = %s", raw)
	}
}

func TestRecordIgnoresBlankTerms(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), "", WithLogger(quiet))
	s.Record(ctx, "dune")

	got := s.Record(ctx, "   ")
	if !reflect.DeepEqual(got, []string{"dune"}) {
		t.Fatalf("Record(blank) = %v", got)
	}
}

func TestRecordReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), "", WithLogger(quiet))
	got := s.Record(ctx, "dune")
	got[0] = "mutated"
	if s.List(ctx)[0] != "dune" {
		t.Fatalf("Record() leaked internal state")
	}
}

func TestWithLimit(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), "", WithLimit(3), WithLogger(quiet))
	for _, term := range []string{"a", "b", "c", "d"} {
		s.Record(ctx, term)
	}
	if got := s.List(ctx); !reflect.DeepEqual(got, []string{"d", "c", "b"}) {
		t.Fatalf("List() = %v", got)
	}
}

func TestWithLimitCannotRaiseCap(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory(), "", WithLimit(25), WithLogger(quiet))
	for i := 0; i < 15; i++ {
		s.Record(ctx, fmt.Sprintf("term-%d", i))
	}
	if got := s.List(ctx); len(got) != DefaultLimit || got[0] != "term-14" {
		t.Fatalf("List() = %v, want the %d newest terms", got, DefaultLimit)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := NewStore(backend, "", WithLogger(quiet))
	s.Record(ctx, "dune")

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear(): %v", err)
	}
	if got := s.List(ctx); len(got) != 0 {
		t.Fatalf("List() after Clear = %v", got)
	}
	if _, ok, _ := backend.Get(ctx, DefaultKey); ok {
		t.Fatalf("key still in backend after Clear")
	}
}

func TestMalformedPayloadIsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	_ = backend.Set(ctx, DefaultKey, "{not json")
	s := NewStore(backend, "", WithLogger(quiet))

	if got := s.List(ctx); len(got) != 0 {
		t.Fatalf("List() = %v, want empty", got)
	}
	if got := s.Record(ctx, "heat"); !reflect.DeepEqual(got, []string{"heat"}) {
		t.Fatalf("Record() = %v", got)
	}
	if s.Degraded() {
		t.Fatalf("malformed data must not degrade the store")
	}
}

func TestBackendFailureDegradesToMemory(t *testing.T) {
	ctx := context.Background()
	backend := &flakyKV{inner: kv.NewMemory()}
	s := NewStore(backend, "", WithLogger(quiet))

	s.Record(ctx, "dune")
	s.Record(ctx, "alien")

	backend.mu.Lock()
	backend.broken = true
	backend.mu.Unlock()

	got := s.Record(ctx, "jaws")
	if !reflect.DeepEqual(got, []string{"jaws", "alien", "dune"}) {
		t.Fatalf("Record() while backend down = %v", got)
	}
	if !s.Degraded() {
		t.Fatalf("store should report degraded mode")
	}

	backend.mu.Lock()
	backend.broken = false
	callsBefore := backend.calls
	backend.mu.Unlock()

	s.Record(ctx, "heat")
	if got := s.List(ctx); !reflect.DeepEqual(got, []string{"heat", "jaws", "alien", "dune"}) {
		t.Fatalf("List() in degraded mode = %v", got)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() in degraded mode: %v", err)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.calls != callsBefore {
		t.Fatalf("degraded store kept calling the backend")
	}
}

func TestKeyFor(t *testing.T) {
	if KeyFor("") != "recent_searches" || KeyFor("  ") != "recent_searches" {
		t.Fatalf("blank client id must use the default key")
	}
	if KeyFor("abc") != "recent_searches:abc" {
		t.Fatalf("KeyFor(abc) = %q", KeyFor("abc"))
	}
}

func TestBookSeparatesClients(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	book := NewBook(backend, WithLogger(quiet))

	book.For("a").Record(ctx, "dune")
	book.For("b").Record(ctx, "heat")
	book.For("").Record(ctx, "jaws")

	if book.For("a") != book.For("a") {
		t.Fatalf("For() should reuse the store of a client")
	}
	if got := book.For("a").List(ctx); !reflect.DeepEqual(got, []string{"dune"}) {
		t.Fatalf("client a = %v", got)
	}
	if raw, _, _ := backend.Get(ctx, "recent_searches:b"); raw != `["heat"]` {
		t.Fatalf("client b payload = %q", raw)
	}
	if raw, _, _ := backend.Get(ctx, "recent_searches"); raw != `["jaws"]` {
		t.Fatalf("default payload = %q", raw)
	}
}
