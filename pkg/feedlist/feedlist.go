// Package feedlist resolves candidate feed URLs from an arbitrary
// source document (a web page, gist, or local file).
package feedlist

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrNoCandidates means the source document contained no usable feed
// URLs. Fatal to the pipeline: there is nothing to fetch.
var ErrNoCandidates = errors.New("no candidate feed URLs extracted from source document")

// urlPattern is a permissive scheme + non-whitespace match; trailing
// punctuation is trimmed afterwards.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"'` + "`" + `]+`)

const trailingPunct = ".,);]"

// DefaultExcludedHosts drops URLs pointing back at the document
// platform itself, which would otherwise be treated as feeds.
var DefaultExcludedHosts = map[string]struct{}{
	"gist.github.com":            {},
	"github.com":                 {},
	"gist.githubusercontent.com": {},
}

// Resolver extracts candidate feed URLs from text.
type Resolver struct {
	// ExcludedHosts are dropped after www-stripping; nil means
	// DefaultExcludedHosts.
	ExcludedHosts map[string]struct{}
}

// NewResolver creates a resolver with the default excluded hosts.
func NewResolver() *Resolver {
	return &Resolver{ExcludedHosts: DefaultExcludedHosts}
}

// Resolve scans content for URL-shaped tokens, trims trailing
// punctuation, deduplicates preserving first-seen order, drops
// excluded hosts, and truncates to the first maxFeeds URLs (maxFeeds
// <= 0 keeps all). Returns ErrNoCandidates when nothing remains.
func (r *Resolver) Resolve(content string, maxFeeds int) ([]string, error) {
	excluded := r.ExcludedHosts
	if excluded == nil {
		excluded = DefaultExcludedHosts
	}

	seen := make(map[string]struct{})
	var out []string
	for _, match := range urlPattern.FindAllString(content, -1) {
		candidate := strings.TrimRight(strings.TrimSpace(match), trailingPunct)
		if candidate == "" {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		if _, skip := excluded[hostOf(candidate)]; skip {
			continue
		}
		out = append(out, candidate)
	}

	if len(out) == 0 {
		return nil, ErrNoCandidates
	}
	if maxFeeds > 0 && len(out) > maxFeeds {
		out = out[:maxFeeds]
	}
	return out, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
