package feedlist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ge-xing/DailyNews/pkg/httpclient"
)

const defaultLoadTimeout = 20 * time.Second

// Loader fetches the source document the resolver scans. It
// understands GitHub gist pages (resolved through the gists API), raw
// gist URLs, plain web pages, and local files.
type Loader struct {
	client *httpclient.Client
	// apiBase is the GitHub API root, overridable in tests.
	apiBase string
}

// NewLoader creates a loader with the default request timeout.
func NewLoader() *Loader {
	return &Loader{
		client:  httpclient.New(defaultLoadTimeout),
		apiBase: "https://api.github.com",
	}
}

var gistIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`gist\.github\.com/[^/]+/([0-9a-fA-F]+)`),
	regexp.MustCompile(`gist\.githubusercontent\.com/[^/]+/([0-9a-fA-F]+)`),
}

// LoadFile reads a local feed-list file.
func (l *Loader) LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read feed list file: %w", err)
	}
	return string(data), nil
}

// LoadURL fetches the document at sourceURL. Gist page URLs go through
// the gists API so every file of the gist is included; raw gist URLs
// and ordinary pages are fetched directly.
func (l *Loader) LoadURL(ctx context.Context, sourceURL string) (string, error) {
	if strings.Contains(sourceURL, "gist.githubusercontent.com") {
		body, _, err := l.client.GetString(ctx, sourceURL)
		return body, err
	}
	if strings.Contains(sourceURL, "gist.github.com") {
		return l.loadGist(ctx, sourceURL)
	}
	body, _, err := l.client.GetString(ctx, sourceURL)
	return body, err
}

func (l *Loader) loadGist(ctx context.Context, gistURL string) (string, error) {
	id, err := extractGistID(gistURL)
	if err != nil {
		return "", err
	}

	body, _, err := l.client.GetString(ctx, fmt.Sprintf("%s/gists/%s", l.apiBase, id))
	if err != nil {
		return "", fmt.Errorf("failed to fetch gist %s: %w", id, err)
	}

	var payload struct {
		Files map[string]struct {
			Content string `json:"content"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return "", fmt.Errorf("failed to decode gist payload: %w", err)
	}
	if len(payload.Files) == 0 {
		return "", fmt.Errorf("no files found in gist %s", id)
	}

	names := make([]string, 0, len(payload.Files))
	for name := range payload.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	var chunks []string
	for _, name := range names {
		if content := payload.Files[name].Content; content != "" {
			chunks = append(chunks, content)
		}
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("gist %s files are all empty", id)
	}
	return strings.Join(chunks, "\n\n"), nil
}

func extractGistID(gistURL string) (string, error) {
	for _, pat := range gistIDPatterns {
		if m := pat.FindStringSubmatch(gistURL); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("cannot parse gist id from URL: %s", gistURL)
}
