package main

import (
	"errors"
	"testing"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>React Status</title>
  <link>https://react.test/</link>
  <item><title>Issue 402</title><link>https://react.test/issues/402</link></item>
  <item><title>Issue 401</title><link>https://react.test/issues/401</link></item>
</channel>
</rss>`

func TestFeedLinkHandlerCanHandle(t *testing.T) {
	h := NewFeedLinkHandler()

	tests := []struct {
		name        string
		lp          ListPage
		contentType string
		expected    bool
	}{
		{
			name:        "feed kind",
			lp:          ListPage{URL: "https://x.test/rss", Kind: ListKindFeed},
			contentType: "text/html",
			expected:    true,
		},
		{
			name:        "rss content type without selector",
			lp:          ListPage{URL: "https://x.test/rss"},
			contentType: "application/rss+xml; charset=utf-8",
			expected:    true,
		},
		{
			name:        "rss content type with selector",
			lp:          ListPage{URL: "https://x.test/rss", LinkSelector: "a"},
			contentType: "application/rss+xml",
			expected:    false,
		},
		{
			name:        "html page",
			lp:          ListPage{URL: "https://x.test/archive"},
			contentType: "text/html",
			expected:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &Page{URL: tt.lp.URL, ContentType: tt.contentType}
			if got := h.CanHandle(tt.lp, page); got != tt.expected {
				t.Errorf("CanHandle() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFeedLinkHandlerLinks(t *testing.T) {
	h := NewFeedLinkHandler()
	lp := ListPage{URL: "https://react.test/rss", Kind: ListKindFeed}

	links, err := h.Links(lp, &Page{Body: []byte(rssFeed)})
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}

	expected := []string{"https://react.test/issues/402", "https://react.test/issues/401"}
	if len(links) != len(expected) {
		t.Fatalf("Links() returned %d links, want %d", len(links), len(expected))
	}
	for i := range expected {
		if links[i] != expected[i] {
			t.Errorf("Links()[%d] = %q, want %q", i, links[i], expected[i])
		}
	}
}

func TestFeedLinkHandlerInvalidFeed(t *testing.T) {
	h := NewFeedLinkHandler()
	lp := ListPage{URL: "https://x.test/rss", Kind: ListKindFeed}

	if _, err := h.Links(lp, &Page{Body: []byte("not a feed")}); err == nil {
		t.Error("Links() expected error for invalid feed")
	}
}

func TestHTMLLinkHandlerLinks(t *testing.T) {
	h := &HTMLLinkHandler{}
	body := `<html><body>
		<a class="issue-link" href=" /issues/42 ">Latest</a>
		<a class="issue-link">No href</a>
		<a class="other" href="/about">About</a>
	</body></html>`

	links, err := h.Links(ListPage{LinkSelector: "a.issue-link"}, &Page{Body: []byte(body)})
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}

	expected := []string{"/issues/42", ""}
	if len(links) != len(expected) {
		t.Fatalf("Links() returned %v, want %v", links, expected)
	}
	for i := range expected {
		if links[i] != expected[i] {
			t.Errorf("Links()[%d] = %q, want %q", i, links[i], expected[i])
		}
	}

	if !h.CanHandle(ListPage{}, &Page{}) {
		t.Error("HTMLLinkHandler should handle any page")
	}
}

func TestPickLink(t *testing.T) {
	links := []string{"/a", "/b", ""}

	tests := []struct {
		name        string
		links       []string
		index       int
		expected    string
		wantClamped bool
		wantErr     bool
	}{
		{name: "first", links: links, index: 0, expected: "/a"},
		{name: "second", links: links, index: 1, expected: "/b"},
		{name: "index past end", links: links, index: 7, expected: "/a", wantClamped: true},
		{name: "negative index", links: links, index: -1, expected: "/a", wantClamped: true},
		{name: "missing href", links: links, index: 2, wantErr: true},
		{name: "no links", links: nil, index: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped, err := pickLink(tt.links, tt.index)

			if tt.wantErr {
				if !errors.Is(err, errNoLink) {
					t.Errorf("pickLink() error = %v, want errNoLink", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("pickLink() unexpected error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("pickLink() = %q, want %q", got, tt.expected)
			}
			if clamped != tt.wantClamped {
				t.Errorf("pickLink() clamped = %v, want %v", clamped, tt.wantClamped)
			}
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base     string
		href     string
		expected string
	}{
		{"https://x.test/archive", "/issues/42", "https://x.test/issues/42"},
		{"https://x.test/archive/", "issues/42", "https://x.test/archive/issues/42"},
		{"https://x.test/archive", "https://y.test/post", "https://y.test/post"},
		{"https://x.test/archive", "//cdn.test/a", "https://cdn.test/a"},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, err := absoluteURL(tt.base, tt.href)
			if err != nil {
				t.Fatalf("absoluteURL() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("absoluteURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.expected)
			}
		})
	}
}
