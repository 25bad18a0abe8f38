package main

import (
	"context"
	"fmt"
	"os"
	"time"
)

// fetch runs every enabled source through one HTTP session and saves the successes
func (a *app) fetch(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     a.runID,
		StartedAt: time.Now(),
		Saved:     make(map[string]string),
	}

	if len(a.settings.EnabledSources()) == 0 {
		a.log.Warn("No enabled sources found in configuration")
		report.FinishedAt = time.Now()
		return report, nil
	}

	session := NewSession(a.settings.Fetch, a.log)
	defer session.Close()

	runner := NewBatchRunner(NewLinkResolver(session, a.log), NewContentExtractor(session, a.log), a.log)
	report.Results = runner.RunAll(ctx, a.settings.Sources)

	for _, result := range report.Results {
		if !result.Success() {
			continue
		}
		path, err := SaveResult(a.settings.OutputDirectory, result)
		if err != nil {
			a.log.WithError(err).WithField("source", result.SourceName).Error("✗ Failed to save content")
			continue
		}
		report.Saved[result.SourceName] = path
		a.log.WithField("source", result.SourceName).Infof("✓ Saved: %s", path)
	}

	report.FinishedAt = time.Now()
	printReport(os.Stdout, report)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("fetch interrupted: %w", err)
	}
	return report, nil
}

// summarize writes the summary of everything in the output directory
func (a *app) summarize(ctx context.Context) error {
	summary, err := a.summarizer.Summarize(ctx, a.settings.OutputDirectory)
	if err != nil {
		return err
	}
	if err := SaveSummary(a.settings.SummaryFile, summary); err != nil {
		return err
	}
	a.log.Infof("✓ Summary saved to %s", a.settings.SummaryFile)
	return nil
}
