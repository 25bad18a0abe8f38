package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver returns a fixed answer and records the list pages it was given
type stubResolver struct {
	url   string
	ok    bool
	calls []ListPage
}

func (s *stubResolver) ResolveListPage(ctx context.Context, lp ListPage) (string, bool) {
	s.calls = append(s.calls, lp)
	return s.url, s.ok
}

// stubExtractor succeeds for every URL except those in fail
type stubExtractor struct {
	fail  map[string]error
	calls []string
}

func (s *stubExtractor) Extract(ctx context.Context, url, selector string, ignoreSelectors []string, format Format) ExtractionOutcome {
	s.calls = append(s.calls, url)
	if err, ok := s.fail[url]; ok {
		return ExtractionOutcome{URL: url, Err: err}
	}
	return ExtractionOutcome{URL: url, Extraction: &Extraction{
		URL:     url,
		Title:   "Title of " + url,
		Content: "content",
		Format:  format,
	}}
}

func boolPtr(b bool) *bool { return &b }

func TestRunAllOneResultPerEnabledSource(t *testing.T) {
	logger, _ := newTestLogger()
	resolver := &stubResolver{url: "https://x.test/issues/42", ok: true}
	extractor := &stubExtractor{fail: map[string]error{
		"https://down.test/": &HTTPError{StatusCode: 503, URL: "https://down.test/"},
	}}
	runner := NewBatchRunner(resolver, extractor, logger)

	sources := []Source{
		{Name: "Direct", URL: "https://direct.test/", Frequency: "weekly"},
		{Name: "Disabled", URL: "https://off.test/", Enabled: boolPtr(false)},
		{Name: "Listed", ListPage: &ListPage{URL: "https://x.test/archive", LinkSelector: "a"}, Format: "text"},
		{Name: "Down", URL: "https://down.test/", Enabled: boolPtr(true)},
		{Name: "Nothing"},
	}

	results := runner.RunAll(context.Background(), sources)

	require.Len(t, results, 4)
	names := []string{results[0].SourceName, results[1].SourceName, results[2].SourceName, results[3].SourceName}
	assert.Equal(t, []string{"Direct", "Listed", "Down", "Nothing"}, names)

	assert.True(t, results[0].Success())
	assert.Equal(t, "weekly", results[0].Frequency)
	assert.Equal(t, "Title of https://direct.test/", results[0].Title)

	assert.True(t, results[1].Success())
	assert.Equal(t, "https://x.test/issues/42", results[1].URL)
	assert.Equal(t, FormatText, results[1].Format)
	assert.Equal(t, defaultFrequency, results[1].Frequency)

	assert.False(t, results[2].Success())
	assert.Equal(t, "HTTP 503 for https://down.test/", results[2].ErrorMessage())
	assert.Empty(t, results[2].Title)
	assert.Empty(t, results[2].Content)

	assert.False(t, results[3].Success())
	assert.ErrorIs(t, results[3].Err, ErrNoSourceURL)
	assert.Equal(t, "no url or list_page specified", results[3].ErrorMessage())

	assert.NotContains(t, extractor.calls, "https://off.test/")
}

func TestRunSourceListPageFailures(t *testing.T) {
	tests := []struct {
		name        string
		listPage    *ListPage
		resolverOK  bool
		wantErr     error
		wantURL     string
		wantResolve bool
	}{
		{
			name:     "missing list url",
			listPage: &ListPage{LinkSelector: "a"},
			wantErr:  ErrInvalidListPage,
		},
		{
			name:     "missing link selector",
			listPage: &ListPage{URL: "https://x.test/archive"},
			wantErr:  ErrInvalidListPage,
		},
		{
			name:        "resolver finds nothing",
			listPage:    &ListPage{URL: "https://x.test/archive", LinkSelector: "a"},
			wantErr:     ErrLinkNotFound,
			wantURL:     "https://x.test/archive",
			wantResolve: true,
		},
		{
			name:        "feed needs no selector",
			listPage:    &ListPage{URL: "https://x.test/rss", Kind: ListKindFeed},
			resolverOK:  true,
			wantResolve: true,
			wantURL:     "https://x.test/issues/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newTestLogger()
			resolver := &stubResolver{ok: tt.resolverOK}
			if tt.resolverOK {
				resolver.url = "https://x.test/issues/1"
			}
			extractor := &stubExtractor{}
			runner := NewBatchRunner(resolver, extractor, logger)

			result := runner.RunSource(context.Background(), Source{Name: "JS Weekly", ListPage: tt.listPage})

			assert.Equal(t, tt.wantResolve, len(resolver.calls) == 1)
			assert.Equal(t, tt.wantURL, result.URL)
			if tt.wantErr != nil {
				assert.ErrorIs(t, result.Err, tt.wantErr)
				assert.Empty(t, extractor.calls, "extraction must not run after a failed list page")
				return
			}
			assert.True(t, result.Success())
		})
	}
}

func TestRunSourceErrorMessages(t *testing.T) {
	assert.Equal(t, "invalid list_page configuration", ErrInvalidListPage.Error())
	assert.Equal(t, "could not extract link from list page", ErrLinkNotFound.Error())
}

func TestRunAllEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/archive", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a class="issue-link" href="/issues/42">Latest</a></body></html>`))
	})
	mux.HandleFunc("/issues/42", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Issue 42</title></head><body>
			<div id="content"><h1>This week</h1><p>React 19 is out.</p><div class="ad">Sponsor</div></div>
			<footer>Unsubscribe</footer>
		</body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	logger, _ := newTestLogger()
	session := NewSession(FetchSettings{}, logger)
	defer session.Close()
	runner := NewBatchRunner(NewLinkResolver(session, logger), NewContentExtractor(session, logger), logger)

	results := runner.RunAll(context.Background(), []Source{
		{
			Name:            "JavaScript Weekly",
			ListPage:        &ListPage{URL: server.URL + "/archive", LinkSelector: "a.issue-link"},
			Selector:        "#content",
			IgnoreSelectors: []string{".ad"},
			Frequency:       "weekly",
		},
		{Name: "Gone", URL: server.URL + "/missing"},
	})

	require.Len(t, results, 2)

	ok := results[0]
	require.True(t, ok.Success(), ok.ErrorMessage())
	assert.Equal(t, server.URL+"/issues/42", ok.URL)
	assert.Equal(t, "Issue 42", ok.Title)
	assert.Contains(t, ok.Content, "# This week")
	assert.Contains(t, ok.Content, "React 19 is out.")
	assert.NotContains(t, ok.Content, "Sponsor")
	assert.NotContains(t, ok.Content, "Unsubscribe")

	failed := results[1]
	assert.False(t, failed.Success())
	var httpErr *HTTPError
	require.True(t, errors.As(failed.Err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}
