package main

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
)

// reportPreviewLength caps the content preview, in runes
const reportPreviewLength = 500

// printReport writes the results summary for a fetch run
func printReport(out io.Writer, report *RunReport) {
	title := "RESULTS SUMMARY"
	color.New(color.FgWhite, color.Bold).Fprintf(out, "\n%s\n", title)
	fmt.Fprintln(out, strings.Repeat("─", len(title)))

	for _, r := range report.Results {
		if r.Success() {
			color.New(color.FgGreen).Fprintf(out, "✓ %s\n", r.SourceName)
			fmt.Fprintf(out, "    %s\n", r.Title)
			fmt.Fprintf(out, "    URL: %s\n", r.URL)
			fmt.Fprintf(out, "    Frequency: %s\n", r.Frequency)
			fmt.Fprintf(out, "    Content length: %d characters\n", utf8.RuneCountInString(r.Content))
			if preview := contentPreview(r.Content); preview != "" {
				fmt.Fprintf(out, "    Preview: %s\n", preview)
			}
			if path, ok := report.Saved[r.SourceName]; ok {
				fmt.Fprintf(out, "    → %s\n", path)
			}
			continue
		}
		color.New(color.FgRed).Fprintf(out, "✗ %s\n", r.SourceName)
		if r.URL != "" {
			fmt.Fprintf(out, "    URL: %s\n", r.URL)
		}
		fmt.Fprintf(out, "    %s\n", r.ErrorMessage())
	}

	fmt.Fprintln(out)
	summary := fmt.Sprintf("%d/%d sources fetched in %s (run %s)",
		report.Succeeded(), len(report.Results),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond), report.RunID)
	if report.Succeeded() == len(report.Results) {
		color.New(color.FgGreen).Fprintln(out, summary)
	} else {
		color.New(color.FgYellow).Fprintln(out, summary)
	}
}

// contentPreview flattens content onto one line and truncates it
func contentPreview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(flat) <= reportPreviewLength {
		return flat
	}
	return string([]rune(flat)[:reportPreviewLength]) + "..."
}
