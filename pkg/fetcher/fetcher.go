// Package fetcher retrieves candidate feeds under bounded concurrency,
// combining format detection, autodiscovery, and parsing per feed.
package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ge-xing/DailyNews/pkg/feed"
	"github.com/ge-xing/DailyNews/pkg/httpclient"
	"github.com/ge-xing/DailyNews/pkg/logger"
)

const (
	// DefaultWorkers bounds concurrent feed fetches.
	DefaultWorkers = 12
	// DefaultTimeout bounds each individual feed request.
	DefaultTimeout = 12 * time.Second
)

// Progress is an optional observer invoked after each task completes.
// It must not block; it is not part of the correctness contract.
type Progress func(done, total, succeeded, failed int)

// FetchError is a per-feed network or HTTP failure. It is counted and
// dropped, never fatal to the batch.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Config holds fetcher settings. Zero values fall back to defaults.
type Config struct {
	Workers  int
	Timeout  time.Duration
	Progress Progress
}

// Fetcher runs one fetch task per candidate URL in a bounded worker
// pool. A single feed's failure never aborts the batch.
type Fetcher struct {
	client   *httpclient.Client
	parser   *feed.Parser
	workers  int
	progress Progress
}

// New creates a fetcher from cfg.
func New(cfg Config) *Fetcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client:   httpclient.New(timeout),
		parser:   feed.NewParser(),
		workers:  workers,
		progress: cfg.Progress,
	}
}

// FetchAll fetches every candidate URL and returns the per-feed parse
// results in completion order, together with aggregate counters.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) ([]feed.Parsed, feed.Stats) {
	stats := feed.Stats{FeedsTotal: len(urls)}
	if len(urls) == 0 {
		return nil, stats
	}

	jobChan := make(chan string, len(urls))
	for _, url := range urls {
		jobChan <- url
	}
	close(jobChan)

	type result struct {
		parsed *feed.Parsed
		url    string
		err    error
	}
	resultChan := make(chan result, len(urls))

	var wg sync.WaitGroup
	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobChan {
				parsed, err := f.fetchOne(ctx, url)
				resultChan <- result{parsed: parsed, url: url, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Single reader aggregates, so results and counters need no lock.
	var results []feed.Parsed
	done := 0
	for res := range resultChan {
		if res.err != nil {
			stats.FeedsFailed++
			logger.Warnf("feed %s failed: %v", res.url, res.err)
		} else {
			stats.FeedsOK++
			results = append(results, *res.parsed)
		}
		done++
		if f.progress != nil {
			f.progress(done, stats.FeedsTotal, stats.FeedsOK, stats.FeedsFailed)
		}
	}
	return results, stats
}

// fetchOne retrieves a single candidate URL. If the body is not feed
// XML, one autodiscovery round-trip is attempted; the second response
// must be feed-shaped.
func (f *Fetcher) fetchOne(ctx context.Context, url string) (*feed.Parsed, error) {
	body, _, err := f.client.GetString(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if feed.IsProbablyFeed(body) {
		return f.parser.Parse(url, body)
	}

	discovered, ok := feed.DiscoverFeedURL(url, body)
	if !ok {
		return nil, &feed.DiscoveryError{PageURL: url}
	}

	body2, _, err := f.client.GetString(ctx, discovered)
	if err != nil {
		return nil, &FetchError{URL: discovered, Err: err}
	}
	if !feed.IsProbablyFeed(body2) {
		return nil, &feed.DiscoveryError{PageURL: url, FeedURL: discovered}
	}
	return f.parser.Parse(discovered, body2)
}
