// Package selector normalizes timestamps, filters entries to a
// trailing time window, deduplicates per source, and produces the
// final most-recent-first selection.
package selector

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/ge-xing/DailyNews/pkg/feed"
)

// ForwardTolerance absorbs clock skew between this process and feed
// servers; entries dated further in the future are dropped as
// anomalous.
const ForwardTolerance = 5 * time.Minute

// EmptyWindowError means no entry survived the window filter. Fatal:
// downstream generation needs at least one entry. It carries the fetch
// counters for diagnostics.
type EmptyWindowError struct {
	FeedsTotal int
	FeedsOK    int
}

func (e *EmptyWindowError) Error() string {
	return fmt.Sprintf(
		"no feed entries found in the selected time window (%d feeds attempted, %d succeeded); try a wider window",
		e.FeedsTotal, e.FeedsOK,
	)
}

// Options configures a selection pass.
type Options struct {
	Now          time.Time
	Window       time.Duration
	MaxPerSource int // <= 0 means unlimited
}

// rfc2822Formats is the first, strict stage of the timestamp cascade.
var rfc2822Formats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// ParseTime normalizes a raw feed timestamp to UTC. The cascade tries
// the RFC-2822 family first, then a permissive general parser; ok is
// false when neither succeeds.
func ParseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, format := range rfc2822Formats {
		if t, err := time.Parse(format, raw); err == nil {
			return t.UTC(), true
		}
	}
	if t, err := dateparse.ParseAny(raw); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// Select filters the combined per-feed results to the trailing window,
// groups by (source, feed URL), deduplicates each group by
// (lower-cased title, link), caps each group at MaxPerSource entries
// most-recent-first, and returns the concatenation sorted by published
// time descending. stats is consulted only for EmptyWindowError
// diagnostics.
func Select(results []feed.Parsed, stats feed.Stats, opts Options) ([]feed.Entry, error) {
	windowStart := opts.Now.Add(-opts.Window)
	windowEnd := opts.Now.Add(ForwardTolerance)

	grouped := make(map[string][]feed.Entry)
	groupedSeen := make(map[string]map[[2]string]struct{})
	var groupOrder []string

	for _, parsed := range results {
		source := parsed.Source
		if source == "" {
			source = feed.Domain(parsed.FeedURL)
		}
		groupKey := source + "||" + parsed.FeedURL

		for _, item := range parsed.Items {
			publishedAt, ok := ParseTime(item.PublishedRaw)
			if !ok {
				// Unknown recency is never admitted to the window.
				continue
			}
			if publishedAt.Before(windowStart) || publishedAt.After(windowEnd) {
				continue
			}

			title := strings.TrimSpace(item.Title)
			link := strings.TrimSpace(item.Link)
			if title == "" || link == "" {
				continue
			}
			dedupeKey := [2]string{strings.ToLower(title), link}
			seen := groupedSeen[groupKey]
			if seen == nil {
				seen = make(map[[2]string]struct{})
				groupedSeen[groupKey] = seen
				groupOrder = append(groupOrder, groupKey)
			}
			if _, dup := seen[dedupeKey]; dup {
				continue
			}
			seen[dedupeKey] = struct{}{}

			grouped[groupKey] = append(grouped[groupKey], feed.Entry{
				Source:       source,
				FeedURL:      parsed.FeedURL,
				Title:        title,
				Link:         link,
				PublishedRaw: strings.TrimSpace(item.PublishedRaw),
				PublishedAt:  publishedAt,
				Summary:      strings.TrimSpace(item.Summary),
			})
		}
	}

	var selected []feed.Entry
	for _, key := range groupOrder {
		items := grouped[key]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PublishedAt.After(items[j].PublishedAt)
		})
		if opts.MaxPerSource > 0 && len(items) > opts.MaxPerSource {
			items = items[:opts.MaxPerSource]
		}
		selected = append(selected, items...)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].PublishedAt.After(selected[j].PublishedAt)
	})

	if len(selected) == 0 {
		return nil, &EmptyWindowError{FeedsTotal: stats.FeedsTotal, FeedsOK: stats.FeedsOK}
	}
	return selected, nil
}
