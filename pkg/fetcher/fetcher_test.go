package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Hello</title>
      <link>https://blog.example/hello</link>
      <pubDate>Tue, 02 Jan 2024 10:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func TestFetchAll_DirectFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testRSS)
	}))
	defer server.Close()

	results, stats := New(Config{Workers: 2}).FetchAll(context.Background(), []string{server.URL})

	if stats.FeedsTotal != 1 || stats.FeedsOK != 1 || stats.FeedsFailed != 0 {
		t.Fatalf("Unexpected stats: %+v", stats)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Source != "Test Feed" || len(results[0].Items) != 1 {
		t.Errorf("Unexpected parse result: %+v", results[0])
	}
	if results[0].FeedURL != server.URL {
		t.Errorf("Expected fetched URL recorded, got %q", results[0].FeedURL)
	}
}

func TestFetchAll_MixedOutcomes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testRSS)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><link rel="alternate" type="application/rss+xml" href="/discovered"></head><body></body></html>`)
	})
	mux.HandleFunc("/discovered", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testRSS)
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><span>no feeds here</span></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	urls := []string{
		server.URL + "/feed",
		server.URL + "/broken",
		server.URL + "/page",
		server.URL + "/plain",
	}
	results, stats := New(Config{Workers: 2}).FetchAll(context.Background(), urls)

	if stats.FeedsTotal != 4 || stats.FeedsOK != 2 || stats.FeedsFailed != 2 {
		t.Fatalf("Unexpected stats: %+v", stats)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	// The autodiscovered feed must be recorded under the URL actually
	// fetched, not the original page.
	feedURLs := map[string]bool{}
	for _, r := range results {
		feedURLs[r.FeedURL] = true
	}
	if !feedURLs[server.URL+"/feed"] || !feedURLs[server.URL+"/discovered"] {
		t.Errorf("Unexpected result feed URLs: %v", feedURLs)
	}
}

func TestFetchAll_ProgressObserver(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testRSS)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	var calls int
	var lastDone, lastTotal, lastOK, lastFailed int
	fetch := New(Config{
		Workers: 2,
		Progress: func(done, total, succeeded, failed int) {
			calls++
			lastDone, lastTotal, lastOK, lastFailed = done, total, succeeded, failed
		},
	})
	fetch.FetchAll(context.Background(), []string{server.URL + "/feed", server.URL + "/broken"})

	if calls != 2 {
		t.Errorf("Expected progress called once per task, got %d calls", calls)
	}
	if lastDone != 2 || lastTotal != 2 || lastOK != 1 || lastFailed != 1 {
		t.Errorf("Unexpected final progress state: done=%d total=%d ok=%d failed=%d",
			lastDone, lastTotal, lastOK, lastFailed)
	}
}

func TestFetchAll_NoURLs(t *testing.T) {
	results, stats := New(Config{}).FetchAll(context.Background(), nil)
	if len(results) != 0 || stats.FeedsTotal != 0 {
		t.Errorf("Expected empty outcome for empty input, got %v %+v", results, stats)
	}
}
