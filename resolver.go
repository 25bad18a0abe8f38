package main

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LinkResolver finds the current issue URL on an archive or feed page
type LinkResolver struct {
	fetcher  Fetcher
	handlers []LinkHandler
	log      logrus.FieldLogger
}

// NewLinkResolver creates a resolver with the default handlers
func NewLinkResolver(fetcher Fetcher, log logrus.FieldLogger) *LinkResolver {
	r := &LinkResolver{fetcher: fetcher, log: log}

	// Register handlers (most specific first)
	r.AddHandler(NewFeedLinkHandler())
	r.AddHandler(&HTMLLinkHandler{}) // fallback

	return r
}

// AddHandler adds a link handler to the chain
func (r *LinkResolver) AddHandler(handler LinkHandler) {
	r.handlers = append(r.handlers, handler)
}

// Resolve fetches the list page and returns the absolute URL of the link at
// linkIndex among the elements matching linkSelector. Failures are logged and
// reported as ok == false, never returned.
func (r *LinkResolver) Resolve(ctx context.Context, listURL, linkSelector string, linkIndex int) (string, bool) {
	return r.ResolveListPage(ctx, ListPage{URL: listURL, LinkSelector: linkSelector, LinkIndex: linkIndex})
}

// ResolveListPage is Resolve for a configured list page, honoring its kind
func (r *LinkResolver) ResolveListPage(ctx context.Context, lp ListPage) (string, bool) {
	log := r.log.WithFields(logrus.Fields{"list_url": lp.URL, "selector": lp.LinkSelector})
	log.Info("→ Fetching link from list page")

	page, err := r.fetcher.Get(ctx, lp.URL)
	if err != nil {
		log.WithError(err).Error("Failed to fetch list page")
		return "", false
	}

	for _, handler := range r.handlers {
		if !handler.CanHandle(lp, page) {
			continue
		}

		links, err := handler.Links(lp, page)
		if err != nil {
			log.WithError(err).Error("Failed to read links from list page")
			return "", false
		}

		href, clamped, err := pickLink(links, lp.LinkIndex)
		if clamped {
			log.Warnf("Link index %d out of range, found %d link(s); using the first", lp.LinkIndex, len(links))
		}
		if err != nil {
			log.WithError(err).Warn("No usable link on list page")
			return "", false
		}

		target, err := absoluteURL(lp.URL, href)
		if err != nil {
			log.WithError(err).Error("Failed to resolve link")
			return "", false
		}

		log.WithField("url", target).Info("✓ Extracted link")
		return target, true
	}

	log.Error("No handler found for list page")
	return "", false
}
