package feed

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DiscoverFeedURL searches an HTML page for an alternate feed URL.
// It prefers <link rel="alternate"> elements whose type mentions
// rss/atom/xml, then falls back to any anchor whose href contains
// rss/atom/feed. The returned URL is resolved against pageURL.
func DiscoverFeedURL(pageURL, html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	var found string
	doc.Find("link").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		rel := strings.ToLower(link.AttrOr("rel", ""))
		typ := strings.ToLower(link.AttrOr("type", ""))
		href := link.AttrOr("href", "")
		if href == "" {
			return true
		}
		if strings.Contains(rel, "alternate") &&
			(strings.Contains(typ, "rss") || strings.Contains(typ, "atom") || strings.Contains(typ, "xml")) {
			found = resolveRef(pageURL, href)
			return false
		}
		return true
	})
	if found != "" {
		return found, true
	}

	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		if href == "" {
			return true
		}
		low := strings.ToLower(href)
		if strings.Contains(low, "rss") || strings.Contains(low, "atom") || strings.Contains(low, "feed") {
			found = resolveRef(pageURL, href)
			return false
		}
		return true
	})
	return found, found != ""
}

// resolveRef resolves href against base, falling back to href itself
// when either side does not parse.
func resolveRef(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
