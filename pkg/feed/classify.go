package feed

import (
	"encoding/xml"
	"io"
	"strings"
)

// Format is the closed set of feed dialects the parser understands.
type Format int

const (
	FormatUnknown Format = iota
	FormatRSS
	FormatRDF
	FormatAtom
)

func (f Format) String() string {
	switch f {
	case FormatRSS:
		return "rss"
	case FormatRDF:
		return "rdf"
	case FormatAtom:
		return "atom"
	default:
		return "unknown"
	}
}

// sniffLimit bounds the prefix inspected by IsProbablyFeed so large
// HTML pages are not scanned end to end.
const sniffLimit = 800

// IsProbablyFeed reports whether body looks like feed XML. It inspects
// only the first sniffLimit characters, lower-cased. This is a
// heuristic: false positives and negatives are accepted.
func IsProbablyFeed(body string) bool {
	head := strings.TrimLeft(body, " \t\r\n")
	if len(head) > sniffLimit {
		head = head[:sniffLimit]
	}
	head = strings.ToLower(head)
	return strings.Contains(head, "<rss") ||
		strings.Contains(head, "<feed") ||
		strings.Contains(head, "<rdf:rdf")
}

func formatForTag(local string) Format {
	switch strings.ToLower(local) {
	case "rss":
		return FormatRSS
	case "rdf":
		return FormatRDF
	case "feed":
		return FormatAtom
	default:
		return FormatUnknown
	}
}

// classify finds the document's root element and maps its local tag
// name (namespace prefix stripped, case-insensitive) to a Format. The
// returned tag is the root's local name; err is non-nil only for
// malformed XML.
func classify(xmlText string) (Format, string, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlText))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return FormatUnknown, "", io.ErrUnexpectedEOF
		}
		if err != nil {
			return FormatUnknown, "", err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return formatForTag(start.Name.Local), start.Name.Local, nil
		}
	}
}

// extractNestedFeed scans the immediate children of the root element
// for a nested rss/rdf/feed element (some servers wrap the real feed
// in an envelope) and returns it re-serialized as a standalone
// document. Re-encoding keeps namespace bindings declared on the
// envelope resolvable inside the extracted feed.
func extractNestedFeed(xmlText string) (string, bool) {
	dec := xml.NewDecoder(strings.NewReader(xmlText))
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				if formatForTag(t.Name.Local) != FormatUnknown {
					return encodeSubtree(dec, t)
				}
				// Not a feed element: consume it whole to stay at the
				// root's child level.
				if err := dec.Skip(); err != nil {
					return "", false
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
}

// encodeSubtree copies tokens from start through its matching end
// element into a fresh document.
func encodeSubtree(dec *xml.Decoder, start xml.StartElement) (string, bool) {
	var buf strings.Builder
	enc := xml.NewEncoder(&buf)
	if err := enc.EncodeToken(start); err != nil {
		return "", false
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
		if err := enc.EncodeToken(tok); err != nil {
			return "", false
		}
	}
	if err := enc.Flush(); err != nil {
		return "", false
	}
	return buf.String(), true
}
