package feed

import (
	"strings"
	"testing"
)

func TestIsProbablyFeed(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"rss", `<?xml version="1.0"?><rss version="2.0"></rss>`, true},
		{"atom", `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`, true},
		{"rdf", `<rdf:RDF xmlns:rdf="x"></rdf:RDF>`, true},
		{"uppercase", `<RSS version="2.0"></RSS>`, true},
		{"leading whitespace", "\n\t  <rss version=\"2.0\"></rss>", true},
		{"html page", `<!DOCTYPE html><html><body></body></html>`, false},
		{"empty", "", false},
		{"marker beyond sniff window", strings.Repeat("<!-- pad -->", 100) + `<rss version="2.0"></rss>`, false},
	}
	for _, tt := range tests {
		if got := IsProbablyFeed(tt.body); got != tt.want {
			t.Errorf("%s: IsProbablyFeed = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		body    string
		format  Format
		rootTag string
	}{
		{`<rss version="2.0"></rss>`, FormatRSS, "rss"},
		{`<rdf:RDF xmlns:rdf="x"></rdf:RDF>`, FormatRDF, "RDF"},
		{`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`, FormatAtom, "feed"},
		{`<html></html>`, FormatUnknown, "html"},
	}
	for _, tt := range tests {
		format, rootTag, err := classify(tt.body)
		if err != nil {
			t.Errorf("classify(%q) failed: %v", tt.body, err)
			continue
		}
		if format != tt.format || rootTag != tt.rootTag {
			t.Errorf("classify(%q) = %v, %q; want %v, %q", tt.body, format, rootTag, tt.format, tt.rootTag)
		}
	}
}

func TestClassify_MalformedXML(t *testing.T) {
	if _, _, err := classify("just words"); err == nil {
		t.Fatal("Expected error for document with no elements")
	}
}

func TestExtractNestedFeed(t *testing.T) {
	wrapped := `<envelope><meta>x</meta><rss version="2.0"><channel><title>Inner</title></channel></rss></envelope>`

	inner, ok := extractNestedFeed(wrapped)
	if !ok {
		t.Fatal("Expected a nested feed to be found")
	}
	if !strings.HasPrefix(strings.TrimSpace(inner), "<rss") {
		t.Errorf("Expected extracted text to start at the rss element, got %q", inner)
	}
	if !strings.Contains(inner, "</rss>") {
		t.Errorf("Expected extracted text to include the closing tag, got %q", inner)
	}
}

func TestExtractNestedFeed_KeepsEnvelopeNamespaces(t *testing.T) {
	wrapped := `<envelope xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<rss version="2.0"><channel><title>Inner</title>` +
		`<item><title>T</title><link>https://w.example/1</link><dc:date>2024-01-02T00:00:00Z</dc:date></item>` +
		`</channel></rss></envelope>`

	inner, ok := extractNestedFeed(wrapped)
	if !ok {
		t.Fatal("Expected a nested feed to be found")
	}
	// The dc binding lives on the envelope root; the extracted document
	// must still declare it somewhere or the date element dangles.
	if !strings.Contains(inner, "http://purl.org/dc/elements/1.1/") {
		t.Errorf("Expected the dc namespace carried into the extracted feed, got %q", inner)
	}
	if !strings.Contains(inner, "2024-01-02T00:00:00Z") {
		t.Errorf("Expected the date content preserved, got %q", inner)
	}
}

func TestExtractNestedFeed_NoFeedChild(t *testing.T) {
	if _, ok := extractNestedFeed(`<doc><a>1</a><b>2</b></doc>`); ok {
		t.Fatal("Expected no nested feed in a plain document")
	}
}
