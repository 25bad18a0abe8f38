package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// strippedElements never survive extraction, whatever the selector
const strippedElements = "script, style, img, picture, svg"

// ContentExtractor fetches a page and turns the selected region into text or markdown
type ContentExtractor struct {
	fetcher Fetcher
	log     logrus.FieldLogger
}

func NewContentExtractor(fetcher Fetcher, log logrus.FieldLogger) *ContentExtractor {
	return &ContentExtractor{fetcher: fetcher, log: log}
}

// Extract fetches url and extracts its content. Every failure is reported in
// the returned outcome.
func (e *ContentExtractor) Extract(ctx context.Context, url, selector string, ignoreSelectors []string, format Format) ExtractionOutcome {
	log := e.log.WithField("url", url)
	log.Info("→ Fetching content")

	page, err := e.fetcher.Get(ctx, url)
	if err != nil {
		log.WithError(err).Error("Failed to fetch content")
		return ExtractionOutcome{URL: url, Err: err}
	}

	ext, err := e.extractHTML(url, page.Body, selector, ignoreSelectors, format)
	if err != nil {
		log.WithError(err).Error("Failed to extract content")
		return ExtractionOutcome{URL: url, Err: err}
	}

	log.WithFields(logrus.Fields{
		"title":  ext.Title,
		"chars":  len(ext.Content),
		"format": ext.Format,
	}).Info("✓ Extracted content")
	return ExtractionOutcome{URL: url, Extraction: ext}
}

// extractHTML runs the cleaning and conversion pipeline over an HTML body
func (e *ContentExtractor) extractHTML(url string, body []byte, selector string, ignoreSelectors []string, format Format) (*Extraction, error) {
	switch format {
	case FormatMarkdown, FormatText:
	case "":
		format = FormatMarkdown
	default:
		e.log.WithField("format", format).Warn("Unknown output format, using markdown")
		format = FormatMarkdown
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	stripNonContent(doc.Selection)
	title := documentTitle(doc, url)

	content := e.selectContent(doc, selector)
	e.removeIgnored(content, ignoreSelectors)

	raw, err := renderHTML(content)
	if err != nil {
		return nil, fmt.Errorf("rendering filtered HTML: %w", err)
	}

	var text string
	if format == FormatMarkdown {
		text = cleanMarkdown(newMarkdownConverter(url).Convert(content))
	} else {
		text = plainText(content)
	}

	return &Extraction{
		URL:     url,
		Title:   title,
		Content: text,
		RawHTML: raw,
		Format:  format,
	}, nil
}

// parseDocument parses with scripting disabled so <noscript> fallbacks are
// elements, not raw text, and get cleaned like the rest of the page.
func parseDocument(body []byte) (*goquery.Document, error) {
	root, err := html.ParseWithOptions(bytes.NewReader(body), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// stripNonContent removes scripts, styles, images and inline styles from the whole document
func stripNonContent(s *goquery.Selection) {
	s.Find(strippedElements).Remove()
	s.Find("[style]").RemoveAttr("style")
}

// documentTitle returns the <title> text, or url when there is none
func documentTitle(doc *goquery.Document, url string) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return url
	}
	return title
}

// selectContent moves the elements matching selector, in document order, under
// a new root. Matches nested inside an earlier match come along with it.
// When nothing matches the whole document is used.
func (e *ContentExtractor) selectContent(doc *goquery.Document, selector string) *goquery.Selection {
	if strings.TrimSpace(selector) == "" {
		return doc.Selection
	}

	e.log.WithField("selector", selector).Debug("Applying selector")
	matches := doc.Find(selector)
	if matches.Length() == 0 {
		e.log.WithField("selector", selector).Warn("Selector matched no elements, using the whole document")
		return doc.Selection
	}

	selected := make(map[*html.Node]bool, matches.Length())
	for _, n := range matches.Nodes {
		selected[n] = true
	}

	var keep []*html.Node
	for _, n := range matches.Nodes {
		if !hasSelectedAncestor(n, selected) {
			keep = append(keep, n)
		}
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range keep {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		root.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(root).Selection
}

func hasSelectedAncestor(n *html.Node, selected map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if selected[p] {
			return true
		}
	}
	return false
}

// removeIgnored deletes every match of each ignore selector, in order
func (e *ContentExtractor) removeIgnored(content *goquery.Selection, ignoreSelectors []string) {
	removed := 0
	for _, sel := range ignoreSelectors {
		if strings.TrimSpace(sel) == "" {
			continue
		}
		matches := content.Find(sel)
		removed += matches.Length()
		matches.Remove()
	}
	if removed > 0 {
		e.log.Infof("Removed %d element(s) using ignore selectors", removed)
	}
}

// renderHTML serializes every node of the selection
func renderHTML(s *goquery.Selection) (string, error) {
	var buf bytes.Buffer
	for _, n := range s.Nodes {
		if n.Type == html.DocumentNode {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if err := html.Render(&buf, c); err != nil {
					return "", err
				}
			}
			continue
		}
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// plainText joins the trimmed text nodes with newlines, dropping blank lines
func plainText(s *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}

	lines := strings.Split(strings.Join(parts, "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
