// Package pipeline wires the harvesting stages together: feed-list
// resolution, concurrent fetch, time-window selection, and article
// enrichment. Its result is the handoff boundary to downstream
// report generation.
package pipeline

import (
	"context"
	"time"

	"github.com/ge-xing/DailyNews/pkg/enricher"
	"github.com/ge-xing/DailyNews/pkg/feed"
	"github.com/ge-xing/DailyNews/pkg/feedlist"
	"github.com/ge-xing/DailyNews/pkg/fetcher"
	"github.com/ge-xing/DailyNews/pkg/logger"
	"github.com/ge-xing/DailyNews/pkg/selector"
)

// Config carries every knob the pipeline needs; nothing is read from
// process-wide state.
type Config struct {
	// SourceURL is the feed-list document URL (gist or web page).
	// Ignored when SourceFile is set.
	SourceURL string
	// SourceFile is a local feed-list file.
	SourceFile string

	MaxFeeds     int // <= 0 keeps all candidates
	Window       time.Duration
	MaxPerSource int

	Workers        int
	FeedTimeout    time.Duration
	ArticleTimeout time.Duration

	// Optional observers for the two concurrent phases.
	FetchProgress  fetcher.Progress
	EnrichProgress fetcher.Progress
}

// Result is the pipeline's sole output: the ordered selection plus
// aggregate counters.
type Result struct {
	Entries []feed.Entry
	Stats   feed.Stats
}

// Pipeline executes one harvesting run.
type Pipeline struct {
	cfg      Config
	loader   *feedlist.Loader
	resolver *feedlist.Resolver
}

// New creates a pipeline for cfg.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		loader:   feedlist.NewLoader(),
		resolver: feedlist.NewResolver(),
	}
}

// Run performs the two sequential phases: the fetch phase completes
// over every candidate feed before enrichment starts on the selected
// subset. The two fatal conditions (no candidates, empty window) are
// returned to the caller; everything else degrades per feed.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	content, err := p.loadSource(ctx)
	if err != nil {
		return nil, err
	}

	urls, err := p.resolver.Resolve(content, p.cfg.MaxFeeds)
	if err != nil {
		return nil, err
	}
	logger.Infof("resolved %d candidate feeds, selecting entries from the last %s", len(urls), p.cfg.Window)

	fetch := fetcher.New(fetcher.Config{
		Workers:  p.cfg.Workers,
		Timeout:  p.cfg.FeedTimeout,
		Progress: p.cfg.FetchProgress,
	})
	results, stats := fetch.FetchAll(ctx, urls)

	entries, err := selector.Select(results, stats, selector.Options{
		Now:          time.Now().UTC(),
		Window:       p.cfg.Window,
		MaxPerSource: p.cfg.MaxPerSource,
	})
	if err != nil {
		return nil, err
	}
	stats.ItemsInWindow = len(entries)
	logger.Infof("selected %d entries in window, fetching article pages", len(entries))

	enrich := enricher.New(enricher.Config{
		Workers:  enrichWorkers(p.cfg.Workers),
		Timeout:  p.cfg.ArticleTimeout,
		Progress: p.cfg.EnrichProgress,
	})
	enrich.Enrich(ctx, entries)

	return &Result{Entries: entries, Stats: stats}, nil
}

func (p *Pipeline) loadSource(ctx context.Context) (string, error) {
	if p.cfg.SourceFile != "" {
		return p.loader.LoadFile(p.cfg.SourceFile)
	}
	return p.loader.LoadURL(ctx, p.cfg.SourceURL)
}

// enrichWorkers clamps the enrichment pool to [4, 16] workers derived
// from the fetch pool size.
func enrichWorkers(workers int) int {
	if workers <= 0 {
		workers = fetcher.DefaultWorkers
	}
	if workers > 16 {
		return 16
	}
	if workers < 4 {
		return 4
	}
	return workers
}
