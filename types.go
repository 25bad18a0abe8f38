package main

import (
	"strings"
	"time"
)

// Format is the output format of extracted content
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Extension returns the file extension used when saving content in this format
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return "md"
}

// ParseFormat maps a configured output_format to a Format. Empty means markdown.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatMarkdown:
		return FormatMarkdown, true
	case FormatText:
		return FormatText, true
	default:
		return FormatMarkdown, false
	}
}

// Extraction holds the fields of a successful content extraction
type Extraction struct {
	URL     string
	Title   string
	Content string
	RawHTML string
	Format  Format
}

// ExtractionOutcome is either a successful Extraction or a failure for URL.
// Exactly one of Extraction and Err is set.
type ExtractionOutcome struct {
	URL        string
	Extraction *Extraction
	Err        error
}

// Success reports whether the extraction succeeded
func (o ExtractionOutcome) Success() bool {
	return o.Err == nil && o.Extraction != nil
}

// FetchResult is the per-source outcome of a batch run
type FetchResult struct {
	SourceName string
	URL        string
	Title      string
	Content    string
	RawHTML    string
	Format     Format
	Frequency  string
	Err        error
}

// Success reports whether the source was fetched and extracted
func (r FetchResult) Success() bool {
	return r.Err == nil
}

// ErrorMessage returns the failure message, or "" for a successful result
func (r FetchResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// newFetchResult annotates an extraction outcome with source metadata
func newFetchResult(src Source, outcome ExtractionOutcome) FetchResult {
	if !outcome.Success() {
		return failedResult(src, outcome.URL, outcome.Err)
	}
	ext := outcome.Extraction
	return FetchResult{
		SourceName: src.DisplayName(),
		URL:        ext.URL,
		Title:      ext.Title,
		Content:    ext.Content,
		RawHTML:    ext.RawHTML,
		Format:     ext.Format,
		Frequency:  src.FrequencyLabel(),
	}
}

// failedResult builds a failure record with every text field empty
func failedResult(src Source, url string, err error) FetchResult {
	return FetchResult{
		SourceName: src.DisplayName(),
		URL:        url,
		Frequency:  src.FrequencyLabel(),
		Format:     src.OutputFormat(),
		Err:        err,
	}
}

// ContentFile is a previously saved content file read back for summarization
type ContentFile struct {
	Filename string
	Content  string
}

// Body returns the extracted content without the header block written by SaveResult
func (f ContentFile) Body() string {
	if i := strings.Index(f.Content, contentHeaderEnd); i >= 0 {
		return f.Content[i+len(contentHeaderEnd):]
	}
	return f.Content
}

// RunReport summarizes a batch run for the results table
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []FetchResult
	Saved      map[string]string // source name -> file path
}

// Succeeded counts successful results
func (r *RunReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Success() {
			n++
		}
	}
	return n
}
