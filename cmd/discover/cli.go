package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/Clark-Hu/reelscout/internal/catalog"
	"github.com/Clark-Hu/reelscout/internal/discovery"
	"github.com/Clark-Hu/reelscout/internal/domain"
	"github.com/Clark-Hu/reelscout/internal/recent"
)

var errUsage = errors.New("usage: discover popular|trending|search|recent|genres|interactive")

type cli struct {
	agg      *discovery.Aggregator
	recent   *recent.Store
	debounce time.Duration

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "popular":
		items, err := c.agg.PopularRecent(ctx)
		return c.printView(items, err)
	case "trending":
		items, err := c.agg.Trending(ctx)
		return c.printView(items, err)
	case "search":
		return c.search(ctx, args[1:])
	case "recent":
		return c.recentCmd(ctx, args[1:])
	case "genres":
		return c.genres()
	case "interactive":
		return c.interactive(ctx)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func (c *cli) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	text := fs.String("q", "", "search text")
	genre := fs.String("genre", "", "genre name")
	sortBy := fs.String("sort", "relevance", "relevance|rating|date|popularity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, err := discovery.ParseSortMode(*sortBy)
	if err != nil {
		return err
	}
	if term := strings.TrimSpace(*text); term != "" {
		c.recent.Record(ctx, term)
	}
	items, err := c.agg.Search(ctx, discovery.Query{Text: *text, Genre: *genre, Sort: mode})
	if err != nil && !errors.Is(err, discovery.ErrCatalogUnavailable) {
		return err
	}
	return c.printView(items, err)
}

func (c *cli) recentCmd(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "clear" {
			return fmt.Errorf("usage: discover recent [clear]")
		}
		return c.recent.Clear(ctx)
	}
	terms := c.recent.List(ctx)
	if len(terms) == 0 {
		fmt.Fprintln(c.out, "no recent searches")
		return nil
	}
	for i, term := range terms {
		fmt.Fprintf(c.out, "%2d. %s\n", i+1, term)
	}
	return nil
}

func (c *cli) genres() error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GENRE\tID")
	for _, g := range catalog.Genres() {
		fmt.Fprintf(tw, "%s\t%d\n", g.Name, g.ID)
	}
	return tw.Flush()
}

// printView writes the table, or the user message when the catalog failed.
func (c *cli) printView(items []domain.Movie, err error) error {
	if err != nil {
		fmt.Fprintln(c.errOut, discovery.UserMessage)
		return err
	}
	return writeTable(c.out, items)
}

func writeTable(w io.Writer, items []domain.Movie) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "no movies found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tRELEASED\tRATING\tPOPULARITY\tGENRES")
	for i, m := range items {
		released := "-"
		if m.ReleaseDate != nil {
			released = m.ReleaseDate.Format(domain.DateLayout)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, m.Title, released, optional(m.Rating), optional(m.Popularity), strings.Join(m.Genres, ", "))
	}
	return tw.Flush()
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

// interactive drives a Session from stdin. Plain lines are treated as the
// current contents of the search box.
func (c *cli) interactive(ctx context.Context) error {
	var mu sync.Mutex
	show := func(r discovery.SessionResult) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(c.out, "== %q genre=%q sort=%s\n", r.Query.Text, r.Query.Genre, r.Query.Sort)
		if r.Err != nil {
			fmt.Fprintln(c.out, discovery.UserMessage)
			return
		}
		_ = writeTable(c.out, r.Items)
	}

	session := discovery.NewSession(c.agg, show,
		discovery.WithDebounce(c.debounce),
		discovery.WithRecorder(c.recent),
	)
	defer session.Close()

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := scanner.Text()
		switch {
		case line == ":quit":
			return nil
		case strings.HasPrefix(line, ":genre"):
			if err := session.SetGenre(strings.TrimSpace(strings.TrimPrefix(line, ":genre"))); err != nil {
				c.warn(&mu, err)
			}
		case strings.HasPrefix(line, ":sort"):
			mode, err := discovery.ParseSortMode(strings.TrimPrefix(line, ":sort"))
			if err == nil {
				err = session.SetSort(mode)
			}
			if err != nil {
				c.warn(&mu, err)
			}
		case strings.HasPrefix(line, "/"):
			session.Submit(strings.TrimPrefix(line, "/"))
		default:
			session.Input(line)
		}
	}
	// End of input: the last typed line still gets its search.
	session.Flush()
	return scanner.Err()
}

func (c *cli) warn(mu *sync.Mutex, err error) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(c.errOut, "! %v\n", err)
}
