package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 20 << 20

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Page is a successfully fetched response
type Page struct {
	URL         string
	ContentType string
	Body        []byte
}

// Fetcher performs GET requests for the resolver and extractor
type Fetcher interface {
	Get(ctx context.Context, url string) (*Page, error)
}

// Session is the HTTP client shared by one run: shared headers, a fixed
// timeout, an optional delay between requests and a response cache so a
// page is downloaded at most once per run.
type Session struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	pages     *cache.Cache
	log       logrus.FieldLogger
}

// NewSession creates a session from the fetch settings
func NewSession(settings FetchSettings, log logrus.FieldLogger) *Session {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	userAgent := settings.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	s := &Session{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		pages:     cache.New(cache.NoExpiration, 0),
		log:       log,
	}
	if settings.RequestDelay > 0 {
		s.limiter = rate.NewLimiter(rate.Every(settings.RequestDelay), 1)
	}
	return s
}

// Get fetches url, returning an *HTTPError for any non-2xx status
func (s *Session) Get(ctx context.Context, url string) (*Page, error) {
	if cached, ok := s.pages.Get(url); ok {
		s.log.WithField("url", url).Debug("Serving page from run cache")
		return cached.(*Page), nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting to fetch %s: %w", url, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body from %s: %w", url, err)
	}

	page := &Page{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	s.pages.Set(url, page, cache.NoExpiration)

	s.log.WithFields(logrus.Fields{
		"url":      url,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Debug("Fetched page")

	return page, nil
}

// Close drops cached pages and idle connections
func (s *Session) Close() {
	s.pages.Flush()
	s.client.CloseIdleConnections()
}
