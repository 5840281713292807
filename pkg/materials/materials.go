// Package materials writes the selected entries to disk as a material
// group: a JSON payload for downstream tooling plus a human-readable
// markdown listing.
package materials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ge-xing/DailyNews/pkg/feed"
)

// DefaultGroupName is used when the caller provides none.
const DefaultGroupName = "DailyNews RSS materials"

type payload struct {
	GeneratedAt string       `json:"generated_at"`
	Count       int          `json:"count"`
	Items       []feed.Entry `json:"items"`
}

// WriteGroup writes "<baseDir>/<dateLabel> - <groupName>/" containing
// materials.json and materials.md, and returns the group directory.
func WriteGroup(baseDir, dateLabel, groupName string, entries []feed.Entry) (string, error) {
	name := strings.TrimSpace(groupName)
	if name == "" {
		name = DefaultGroupName
	}
	groupDir := filepath.Join(baseDir, fmt.Sprintf("%s - %s", dateLabel, name))
	if err := os.MkdirAll(groupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create material group directory: %w", err)
	}

	p := payload{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Count:       len(entries),
		Items:       entries,
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode materials: %w", err)
	}
	if err := os.WriteFile(filepath.Join(groupDir, "materials.json"), append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write materials.json: %w", err)
	}

	md := renderMarkdown(dateLabel, name, p)
	if err := os.WriteFile(filepath.Join(groupDir, "materials.md"), []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("failed to write materials.md: %w", err)
	}
	return groupDir, nil
}

func renderMarkdown(dateLabel, name string, p payload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - %s\n\n", dateLabel, name)
	fmt.Fprintf(&b, "- Entries: %d\n", p.Count)
	fmt.Fprintf(&b, "- Generated at (UTC): %s\n\n", p.GeneratedAt)

	for i, e := range p.Items {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, e.Title)
		fmt.Fprintf(&b, "- Source: %s\n", e.Source)
		fmt.Fprintf(&b, "- Published: %s\n", e.PublishedAt.Format(time.RFC3339))
		fmt.Fprintf(&b, "- Link: %s\n", e.Link)
		fmt.Fprintf(&b, "- Feed: %s\n", e.FeedURL)
		fmt.Fprintf(&b, "- Feed summary: %s\n", orPlaceholder(e.Summary, "(none)"))
		fmt.Fprintf(&b, "- Article excerpt: %s\n\n", orPlaceholder(e.ArticleExcerpt, "(not available)"))
	}
	return b.String()
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
