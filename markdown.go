package main

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const (
	maxBlankLines         = 2
	splitParagraphLength  = 300
	splitSentencesLength  = 500
	minSentencePeriods    = 3
	paragraphBreak        = "\n\n"
	sentenceBoundary      = ".  "
	splitSentenceBoundary = "." + paragraphBreak
)

var (
	// "Author  [Title" and "Text  [Link"
	linkStartRegex = regexp.MustCompile(`  +\[`)
	// a lowercase letter, a double space, then a capital or a section emoji
	wordBreakRegex = regexp.MustCompile(`([a-z])  +([A-Z🎯📄🛠💻🔧])`)
	// emoji section markers
	sectionMarkerRegex = regexp.MustCompile(`  +(📰|📢|🛠|💻|🔧)`)
	// three or more blank lines
	blankRunRegex = regexp.MustCompile(`\n(?:[ \t]*\n){3,}`)
)

// tableTags are dropped from markdown output, content included
var tableTags = []string{"table", "thead", "tbody", "tr", "td", "th"}

// newMarkdownConverter builds a converter that resolves relative links against pageURL
func newMarkdownConverter(pageURL string) *md.Converter {
	base, _ := url.Parse(pageURL)

	conv := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		BulletListMarker: "-",
		StrongDelimiter:  "**",
		GetAbsoluteURL: func(_ *goquery.Selection, rawURL string, _ string) string {
			if base == nil {
				return rawURL
			}
			ref, err := url.Parse(strings.TrimSpace(rawURL))
			if err != nil || ref.Scheme == "data" {
				return rawURL
			}
			return base.ResolveReference(ref).String()
		},
	})
	conv.Remove(tableTags...)
	return conv
}

// cleanMarkdown applies the newsletter readability heuristics to converted markdown
func cleanMarkdown(content string) string {
	content = tidyLines(content)
	content = splitDenseParagraphs(content)
	return capBlankLines(content)
}

// tidyLines right-trims lines, caps blank runs, and adds a blank line after
// headings and after link lines that are followed by prose.
func tidyLines(content string) string {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	blanks := 0

	for i, raw := range lines {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		if line == "" {
			blanks++
			if blanks <= maxBlankLines {
				cleaned = append(cleaned, "")
			}
			continue
		}

		blanks = 0
		cleaned = append(cleaned, line)

		switch {
		case strings.HasPrefix(line, "#"):
			cleaned = append(cleaned, "")
			blanks = 1
		case isLinkLine(line) && nextLineIsProse(lines, i):
			cleaned = append(cleaned, "")
			blanks = 1
		}
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// isLinkLine reports whether line looks like it ends with a markdown link
func isLinkLine(line string) bool {
	return strings.HasSuffix(line, ")") && strings.Contains(line, "[") && strings.Contains(line, "](")
}

func nextLineIsProse(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	next := strings.TrimSpace(lines[i+1])
	if next == "" {
		return false
	}
	return !strings.HasPrefix(next, "-") && !strings.HasPrefix(next, "#") && !strings.HasPrefix(next, "*")
}

// splitDenseParagraphs breaks up long paragraphs that newsletters run together
// with double spaces. Sentence splits keep the period on the sentence it ends,
// unlike a plain split on ".  " which would drop it.
func splitDenseParagraphs(content string) string {
	paragraphs := strings.Split(content, paragraphBreak)
	for i, para := range paragraphs {
		if strings.Contains(para, "  ") && utf8.RuneCountInString(para) > splitParagraphLength {
			para = linkStartRegex.ReplaceAllString(para, paragraphBreak+"[")
			para = wordBreakRegex.ReplaceAllString(para, "${1}"+paragraphBreak+"${2}")
			para = sectionMarkerRegex.ReplaceAllString(para, paragraphBreak+"${1}")
		}

		if utf8.RuneCountInString(para) > splitSentencesLength &&
			strings.Contains(para, ". ") &&
			strings.Count(para, ".") > minSentencePeriods {
			para = strings.ReplaceAll(para, sentenceBoundary, splitSentenceBoundary)
		}

		paragraphs[i] = para
	}
	return strings.Join(paragraphs, paragraphBreak)
}

// capBlankLines guarantees at most maxBlankLines consecutive blank lines
func capBlankLines(content string) string {
	return blankRunRegex.ReplaceAllString(content, "\n\n\n")
}
