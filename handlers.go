package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// errNoLink means the list page was fetched but yielded no usable link
var errNoLink = errors.New("no link found")

// LinkHandler extracts candidate link targets from a fetched list page
type LinkHandler interface {
	CanHandle(lp ListPage, page *Page) bool
	Links(lp ListPage, page *Page) ([]string, error)
}

// FeedLinkHandler reads item links from RSS, Atom and JSON feeds
type FeedLinkHandler struct {
	parser *gofeed.Parser
}

func NewFeedLinkHandler() *FeedLinkHandler {
	return &FeedLinkHandler{parser: gofeed.NewParser()}
}

func (h *FeedLinkHandler) CanHandle(lp ListPage, page *Page) bool {
	if lp.IsFeed() {
		return true
	}
	if strings.TrimSpace(lp.LinkSelector) != "" {
		return false
	}
	return isFeedContentType(page.ContentType)
}

func (h *FeedLinkHandler) Links(lp ListPage, page *Page) ([]string, error) {
	feed, err := h.parser.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", lp.URL, err)
	}

	links := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		links = append(links, strings.TrimSpace(item.Link))
	}
	return links, nil
}

func isFeedContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, marker := range []string{"rss", "atom", "application/xml", "text/xml", "application/feed+json"} {
		if strings.Contains(ct, marker) {
			return true
		}
	}
	return false
}

// HTMLLinkHandler reads href attributes of elements matching the link selector
type HTMLLinkHandler struct{}

func (h *HTMLLinkHandler) CanHandle(lp ListPage, page *Page) bool {
	return true // fallback
}

func (h *HTMLLinkHandler) Links(lp ListPage, page *Page) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing list page %s: %w", lp.URL, err)
	}

	var links []string
	doc.Find(lp.LinkSelector).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, strings.TrimSpace(href))
	})
	return links, nil
}

// pickLink selects links[index], clamping an out-of-range index to 0.
// The boolean reports whether the index had to be clamped.
func pickLink(links []string, index int) (string, bool, error) {
	if len(links) == 0 {
		return "", false, errNoLink
	}
	clamped := false
	if index < 0 || index >= len(links) {
		index = 0
		clamped = true
	}
	if links[index] == "" {
		return "", clamped, fmt.Errorf("%w: selected element has no href", errNoLink)
	}
	return links[index], clamped, nil
}

// absoluteURL resolves href against base
func absoluteURL(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url %s: %w", base, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parsing href %s: %w", href, err)
	}
	return b.ResolveReference(ref).String(), nil
}
