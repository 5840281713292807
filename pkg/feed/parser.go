package feed

import (
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/ge-xing/DailyNews/pkg/logger"
)

// Parser converts RSS, RDF, and Atom XML into Parsed results.
type Parser struct{}

// NewParser creates a feed parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse classifies xmlText by its root element and extracts the feed's
// display name and raw items. Items missing a title or link are
// dropped; duplicates by (lower-cased title, link) keep the first
// occurrence in source order.
func (p *Parser) Parse(feedURL, xmlText string) (*Parsed, error) {
	return p.parse(feedURL, xmlText, false)
}

func (p *Parser) parse(feedURL, xmlText string, unwrapped bool) (*Parsed, error) {
	format, rootTag, err := classify(xmlText)
	if err != nil {
		return nil, &InvalidXMLError{URL: feedURL, Err: err}
	}
	if format == FormatUnknown {
		// Some servers wrap the real feed in an XML envelope; recurse
		// into a nested feed element exactly once.
		if inner, ok := extractNestedFeed(xmlText); ok && !unwrapped {
			return p.parse(feedURL, inner, true)
		}
		return nil, &UnsupportedFeedRootError{URL: feedURL, Tag: rootTag}
	}
	logger.Debugf("feed %s classified as %s", feedURL, format)

	parsed, err := gofeed.NewParser().ParseString(xmlText)
	if err != nil {
		return nil, &InvalidXMLError{URL: feedURL, Err: err}
	}

	source := collapseWhitespace(parsed.Title)
	if source == "" {
		source = Domain(feedURL)
	}
	if source == "" {
		source = feedURL
	}

	out := &Parsed{FeedURL: feedURL, Source: source}
	seen := make(map[[2]string]struct{})
	for _, item := range parsed.Items {
		converted := convertItem(item)
		if converted.Title == "" || converted.Link == "" {
			continue
		}
		key := [2]string{strings.ToLower(converted.Title), converted.Link}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Items = append(out.Items, converted)
	}
	return out, nil
}

// convertItem maps a gofeed item onto the raw Item shape, applying the
// title/link/timestamp/summary fallback chains.
func convertItem(item *gofeed.Item) Item {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		link = strings.TrimSpace(item.GUID)
	}

	publishedRaw := strings.TrimSpace(item.Published)
	if publishedRaw == "" {
		publishedRaw = strings.TrimSpace(item.Updated)
	}
	if publishedRaw == "" && item.DublinCoreExt != nil && len(item.DublinCoreExt.Date) > 0 {
		publishedRaw = strings.TrimSpace(item.DublinCoreExt.Date[0])
	}

	summaryRaw := item.Description
	if summaryRaw == "" {
		summaryRaw = item.Content
	}

	return Item{
		Title:        collapseWhitespace(item.Title),
		Link:         link,
		PublishedRaw: publishedRaw,
		Summary:      CleanText(summaryRaw, MaxSummaryLen),
	}
}
