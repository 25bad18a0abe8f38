package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidListPage = errors.New("invalid list_page configuration")
	ErrLinkNotFound    = errors.New("could not extract link from list page")
	ErrNoSourceURL     = errors.New("no url or list_page specified")
)

// linkResolver is the part of LinkResolver the runner depends on
type linkResolver interface {
	ResolveListPage(ctx context.Context, lp ListPage) (string, bool)
}

// contentExtractor is the part of ContentExtractor the runner depends on
type contentExtractor interface {
	Extract(ctx context.Context, url, selector string, ignoreSelectors []string, format Format) ExtractionOutcome
}

// BatchRunner fetches every enabled source in order
type BatchRunner struct {
	resolver  linkResolver
	extractor contentExtractor
	log       logrus.FieldLogger
}

func NewBatchRunner(resolver linkResolver, extractor contentExtractor, log logrus.FieldLogger) *BatchRunner {
	return &BatchRunner{resolver: resolver, extractor: extractor, log: log}
}

// RunAll returns exactly one result per enabled source, in source order.
// Disabled sources produce no result.
func (r *BatchRunner) RunAll(ctx context.Context, sources []Source) []FetchResult {
	enabled := 0
	for _, src := range sources {
		if src.IsEnabled() {
			enabled++
		}
	}

	results := make([]FetchResult, 0, enabled)
	r.log.Infof("Processing %d enabled source(s)...", enabled)

	for _, src := range sources {
		if !src.IsEnabled() {
			r.log.WithField("source", src.DisplayName()).Info("Skipping disabled source")
			continue
		}

		r.log.Infof("[%d/%d] Processing: %s", len(results)+1, enabled, src.DisplayName())
		result := r.RunSource(ctx, src)
		results = append(results, result)

		if result.Success() {
			r.log.WithField("source", result.SourceName).Infof("✓ Fetched: %s", result.Title)
		} else {
			r.log.WithField("source", result.SourceName).Errorf("✗ Failed %s: %v", result.URL, result.Err)
		}
	}

	return results
}

// RunSource resolves and extracts a single source
func (r *BatchRunner) RunSource(ctx context.Context, src Source) FetchResult {
	log := r.log.WithField("source", src.DisplayName())

	var target string
	switch {
	case src.ListPage != nil:
		lp := *src.ListPage
		if err := lp.Validate(); err != nil {
			log.WithError(err).Error("Invalid list_page config")
			return failedResult(src, "", ErrInvalidListPage)
		}

		url, ok := r.resolver.ResolveListPage(ctx, lp)
		if !ok {
			log.Error("Could not extract link from list page")
			return failedResult(src, lp.URL, ErrLinkNotFound)
		}
		target = url
	case src.URL != "":
		target = src.URL
	default:
		log.Error("Source has neither url nor list_page")
		return failedResult(src, "", ErrNoSourceURL)
	}

	format, ok := ParseFormat(src.Format)
	if !ok {
		log.WithField("format", src.Format).Warn("Unknown output format, using markdown")
	}

	outcome := r.extractor.Extract(ctx, target, src.Selector, src.IgnoreSelectors, format)
	return newFetchResult(src, outcome)
}
