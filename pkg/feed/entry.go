// Package feed holds the canonical entry model and the parsing layer
// that turns RSS, RDF, and Atom documents into it.
package feed

import (
	"net/url"
	"strings"
	"time"
)

// Entry is one selected feed item. Identity fields are fixed once the
// selector admits the entry; only ArticleExcerpt is filled in later by
// the enrichment pass.
type Entry struct {
	Source         string    `json:"source"`
	FeedURL        string    `json:"feed_url"`
	Title          string    `json:"title"`
	Link           string    `json:"link"`
	PublishedRaw   string    `json:"published_raw"`
	PublishedAt    time.Time `json:"published_at"`
	Summary        string    `json:"summary"`
	ArticleExcerpt string    `json:"article_excerpt"`
}

// Item is a raw entry as extracted from feed XML, before timestamp
// normalization. PublishedRaw keeps the original text for diagnostics.
type Item struct {
	Title        string
	Link         string
	PublishedRaw string
	Summary      string
}

// Parsed is the outcome of fetching and parsing one feed. FeedURL is
// the URL actually fetched, which may differ from the candidate URL
// when autodiscovery redirected to an alternate feed.
type Parsed struct {
	FeedURL string
	Source  string
	Items   []Item
}

// Stats aggregates pipeline counters handed to the caller.
type Stats struct {
	FeedsTotal    int `json:"feeds_total"`
	FeedsOK       int `json:"feeds_ok"`
	FeedsFailed   int `json:"feeds_failed"`
	ItemsInWindow int `json:"items_in_window"`
}

// Domain returns the lower-cased host of rawURL without a leading
// "www." prefix, or "" if the URL does not parse.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
