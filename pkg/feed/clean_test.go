package feed

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		maxLen int
		want   string
	}{
		{"plain text collapsed", "a  b\n\tc", 0, "a b c"},
		{"html stripped", "<p>Hello <b>world</b></p>", 0, "Hello world"},
		{"truncated", "abcdef", 3, "abc"},
		{"empty", "", 10, ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.raw, tt.maxLen); got != tt.want {
			t.Errorf("%s: CleanText = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Errorf("Expected rune-safe truncation, got %q", got)
	}
	if got := Truncate("short", 100); got != "short" {
		t.Errorf("Expected string shorter than limit unchanged, got %q", got)
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://www.Blog.Example/feed.xml", "blog.example"},
		{"https://news.example:8080/rss", "news.example"},
		{"not a url", ""},
	}
	for _, tt := range tests {
		if got := Domain(tt.rawURL); got != tt.want {
			t.Errorf("Domain(%q) = %q, want %q", tt.rawURL, got, tt.want)
		}
	}
}
