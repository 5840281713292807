// Package enricher best-effort fetches each selected entry's article
// page and extracts a plain-text excerpt. Failures always degrade to
// an empty excerpt, never to an error.
package enricher

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/ge-xing/DailyNews/pkg/feed"
	"github.com/ge-xing/DailyNews/pkg/fetcher"
	"github.com/ge-xing/DailyNews/pkg/httpclient"
	"github.com/ge-xing/DailyNews/pkg/logger"
)

const (
	// MaxExcerptLen caps article excerpts.
	MaxExcerptLen = 3000
	// minParagraphLen is the shortest collapsed paragraph or list item
	// worth collecting.
	minParagraphLen = 40

	// DefaultWorkers bounds concurrent article fetches.
	DefaultWorkers = 12
	// DefaultTimeout bounds each article request.
	DefaultTimeout = 12 * time.Second
)

// Config holds enricher settings. Zero values fall back to defaults.
type Config struct {
	Workers  int
	Timeout  time.Duration
	Progress fetcher.Progress
}

// Enricher runs the second concurrent pass over the final selection.
type Enricher struct {
	client   *httpclient.Client
	workers  int
	progress fetcher.Progress
}

// New creates an enricher from cfg.
func New(cfg Config) *Enricher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Enricher{
		client:   httpclient.New(timeout),
		workers:  workers,
		progress: cfg.Progress,
	}
}

// Enrich fills entries' ArticleExcerpt fields in place. Each entry is
// touched by exactly one task, so no write contends with another.
func (e *Enricher) Enrich(ctx context.Context, entries []feed.Entry) {
	if len(entries) == 0 {
		return
	}

	jobChan := make(chan int, len(entries))
	for i := range entries {
		jobChan <- i
	}
	close(jobChan)

	doneChan := make(chan bool, len(entries))

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobChan {
				excerpt := e.fetchExcerpt(ctx, entries[i].Link)
				entries[i].ArticleExcerpt = excerpt
				doneChan <- excerpt != ""
			}
		}()
	}
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	done, ok := 0, 0
	for gotExcerpt := range doneChan {
		done++
		if gotExcerpt {
			ok++
		}
		if e.progress != nil {
			e.progress(done, len(entries), ok, done-ok)
		}
	}
}

// fetchExcerpt retrieves the article page and extracts its excerpt.
// Any failure yields "".
func (e *Enricher) fetchExcerpt(ctx context.Context, url string) string {
	body, contentType, err := e.client.GetString(ctx, url)
	if err != nil {
		logger.Debugf("article %s not fetched: %v", url, err)
		return ""
	}
	ctype := strings.ToLower(contentType)
	if !strings.Contains(ctype, "html") && !strings.Contains(ctype, "xml") {
		return ""
	}
	return ExcerptFromHTML(body)
}

// ExcerptFromHTML extracts a plain-text excerpt from an article page:
// non-content elements are removed, an <article> container is
// preferred over the body, and paragraph/list-item text of at least
// minParagraphLen collapsed runes is accumulated up to MaxExcerptLen.
// When no qualifying element exists, readability's text content is
// tried, then the whole container's collapsed text.
func ExcerptFromHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, nav, footer, header, aside, noscript").Remove()

	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("body").First()
	}
	if container.Length() == 0 {
		container = doc.Selection
	}

	var pieces []string
	total := 0
	container.Find("p, li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if utf8.RuneCountInString(text) >= minParagraphLen {
			pieces = append(pieces, text)
			total += utf8.RuneCountInString(text)
		}
		return total < MaxExcerptLen
	})

	if len(pieces) > 0 {
		return feed.Truncate(strings.Join(pieces, "\n"), MaxExcerptLen)
	}

	if article, err := readability.FromReader(strings.NewReader(html), nil); err == nil {
		if text := strings.Join(strings.Fields(article.TextContent), " "); text != "" {
			return feed.Truncate(text, MaxExcerptLen)
		}
	}

	text := strings.Join(strings.Fields(container.Text()), " ")
	return feed.Truncate(text, MaxExcerptLen)
}
