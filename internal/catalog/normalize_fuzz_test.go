package catalog

import "testing"

func FuzzDecodePage(f *testing.F) {
	seeds := []string{
		`[{"id":1,"title":"A","release_date":"2026-01-02"}]`,
		`{"results":[{"id":"2","name":"B","genre_ids":[28,18]}],"page":1,"total_pages":3}`,
		`{"data":[{"_id":{"$oid":"64f"},"voteAverage":"7.5"}],"pagination":{"hasMore":false}}`,
		`{"reviews":[]}`,
		`{}`,
		`null`,
		`42`,
		``,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		page, ok, err := decodePage([]byte(raw))
		if err != nil {
			return
		}
		if !ok && len(page.Items) != 0 {
			t.Fatalf("unrecognised payload produced %d items", len(page.Items))
		}
		if len(page.Items) == 0 && page.HasMore {
			t.Fatalf("empty page must not report more pages")
		}
		for _, m := range page.Items {
			if m.Key() == "" {
				t.Fatalf("movie without key: %+v", m)
			}
		}
	})
}
