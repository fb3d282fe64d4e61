package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strconv"
	"time"
)

func main() {
	var (
		port     = flag.String("port", "9099", "port to listen on")
		data     = flag.String("data", "", "path to a JSON array of movies; empty generates a dataset")
		count    = flag.Int("count", 240, "number of generated movies when -data is empty")
		apiKey   = flag.String("api-key", "", "require this X-API-Key header when set")
		logLines = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	entries := generateDataset(*count, time.Now().UTC())
	if *data != "" {
		loaded, err := loadDataset(*data)
		if err != nil {
			log.Fatalf("%v", err)
		}
		entries = loaded
	}

	addr := ":" + *port
	log.Printf("mock catalog listening on %s (%d movies)", addr, len(entries))
	if err := http.ListenAndServe(addr, newMux(entries, *apiKey, *logLines)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newMux(entries []movieEntry, apiKey string, logRequests bool) http.Handler {
	byDate := newestFirst(entries)

	mux := http.NewServeMux()
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		list := entries
		if r.URL.Query().Get("sort_by") == "release_date.desc" {
			list = byDate
		}
		writePage(w, list, r)
	})
	mux.HandleFunc("/movies/search", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, matchTitle(entries, r.URL.Query().Get("query")), r)
	})
	mux.HandleFunc("/movies/discover", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.URL.Query().Get("with_genres"))
		if err != nil {
			http.Error(w, "with_genres must be numeric", http.StatusBadRequest)
			return
		}
		writePage(w, withGenre(byDate, id), r)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if logRequests {
			log.Printf("%s %s", r.Method, r.URL.RequestURI())
		}
		if apiKey != "" && r.Header.Get("X-API-Key") != apiKey {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func writePage(w http.ResponseWriter, list []movieEntry, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(paginate(list, page)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
