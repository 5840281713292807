package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxSummaryLen caps feed-provided summaries.
const MaxSummaryLen = 600

// collapseWhitespace joins all whitespace-separated tokens with single
// spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanText strips HTML from raw (when it contains markup), collapses
// interior whitespace, and truncates to maxLen runes.
func CleanText(raw string, maxLen int) string {
	if raw == "" {
		return ""
	}
	var text string
	if !strings.ContainsAny(raw, "<>") {
		text = collapseWhitespace(raw)
	} else {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err != nil {
			text = collapseWhitespace(raw)
		} else {
			text = collapseWhitespace(doc.Text())
		}
	}
	return Truncate(text, maxLen)
}

// Truncate cuts s to at most maxLen runes.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
