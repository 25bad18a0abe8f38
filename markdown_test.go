package main

import (
	"regexp"
	"strings"
	"testing"
)

var tooManyBlankLines = regexp.MustCompile(`\n[ \t]*\n[ \t]*\n[ \t]*\n`)

func TestCleanMarkdownLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "caps blank runs",
			input:    "a\n\n\n\n\n\nb",
			expected: "a\n\n\nb",
		},
		{
			name:     "blank after heading",
			input:    "# Title\nText",
			expected: "# Title\n\nText",
		},
		{
			name:     "blank after link before prose",
			input:    "[Post](https://x.test/post)\nWhy it matters",
			expected: "[Post](https://x.test/post)\n\nWhy it matters",
		},
		{
			name:     "no blank between link and list item",
			input:    "[Post](https://x.test/post)\n- next",
			expected: "[Post](https://x.test/post)\n- next",
		},
		{
			name:     "right trims lines",
			input:    "one   \ntwo\t",
			expected: "one\ntwo",
		},
		{
			name:     "trims surrounding blank lines",
			input:    "\n\nbody\n\n",
			expected: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanMarkdown(tt.input); got != tt.expected {
				t.Errorf("cleanMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanMarkdownNeverExceedsTwoBlankLines(t *testing.T) {
	inputs := []string{
		"# Heading\n\n\nText",
		"## A\n\n\n\n## B\n\n\n\nC",
		"[a](https://a.test)\n\n\n\nprose",
		strings.Repeat("line\n \n\t\n  \n", 5),
	}

	for _, input := range inputs {
		got := cleanMarkdown(input)
		if tooManyBlankLines.MatchString(got) {
			t.Errorf("cleanMarkdown(%q) = %q has more than 2 consecutive blank lines", input, got)
		}
	}
}

func TestSplitDenseParagraphs(t *testing.T) {
	filler := strings.Repeat("lorem ipsum ", 30)

	t.Run("link start", func(t *testing.T) {
		got := splitDenseParagraphs(filler + " [Next](https://x.test)")
		if !strings.Contains(got, "ipsum\n\n[Next](https://x.test)") {
			t.Errorf("splitDenseParagraphs() did not split before link: %q", got)
		}
	})

	t.Run("word break", func(t *testing.T) {
		got := splitDenseParagraphs(filler + "react  Next section")
		if !strings.Contains(got, "react\n\nNext section") {
			t.Errorf("splitDenseParagraphs() did not split at word break: %q", got)
		}
	})

	t.Run("section marker", func(t *testing.T) {
		got := splitDenseParagraphs(filler + "done.  🛠 Tools")
		if !strings.Contains(got, "done.\n\n🛠 Tools") {
			t.Errorf("splitDenseParagraphs() did not split at section marker: %q", got)
		}
	})

	t.Run("short paragraph untouched", func(t *testing.T) {
		input := "short  [Link](https://x.test)"
		if got := splitDenseParagraphs(input); got != input {
			t.Errorf("splitDenseParagraphs(%q) = %q", input, got)
		}
	})

	t.Run("sentences keep their period", func(t *testing.T) {
		input := strings.TrimSpace(strings.Repeat("This is a sentence.  ", 30))
		got := splitDenseParagraphs(input)

		if n := strings.Count(got, ".\n\n"); n != 29 {
			t.Errorf("split %d sentence boundaries, want 29: %q", n, got)
		}
		want := strings.TrimSuffix(strings.Repeat("This is a sentence.\n\n", 30), "\n\n")
		if got != want {
			t.Errorf("splitDenseParagraphs() = %q, want %q", got, want)
		}
		if strings.Count(got, ".") != 30 {
			t.Errorf("splitDenseParagraphs() lost periods: %q", got)
		}
	})
}

func TestCapBlankLines(t *testing.T) {
	got := capBlankLines("a\n\n\n\n\nb\n \n\t\n \n \nc")
	if got != "a\n\n\nb\n\n\nc" {
		t.Errorf("capBlankLines() = %q", got)
	}
}

func TestNewMarkdownConverterAbsoluteLinks(t *testing.T) {
	conv := newMarkdownConverter("https://x.test/issues/42")

	got, err := conv.ConvertString(`<p><a href="../posts/a">A</a> <a href="https://y.test/b">B</a></p><table><tr><td>gone</td></tr></table>`)
	if err != nil {
		t.Fatalf("ConvertString() error = %v", err)
	}

	if !strings.Contains(got, "[A](https://x.test/posts/a)") {
		t.Errorf("relative link not resolved: %q", got)
	}
	if !strings.Contains(got, "[B](https://y.test/b)") {
		t.Errorf("absolute link changed: %q", got)
	}
	if strings.Contains(got, "gone") {
		t.Errorf("table content not removed: %q", got)
	}
}
