// Package ingest fetches a pasted job-posting URL and turns it into readable
// text for AI analysis. Plain HTTP fetch first; a headless-browser fallback
// covers script-rendered boards.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; JobTracker/1.0)"

// Error represents an error during posting ingestion.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingest error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("ingest error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Posting holds the fetched and extracted content of one posting URL.
type Posting struct {
	URL        string
	HTML       string
	Text       string
	StatusCode int
	// Rendered is true when the browser fallback produced the HTML.
	Rendered bool
}

// Options configures ingestion behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	UseBrowser bool // enable the headless-browser fallback for short extractions
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// FetchPosting retrieves a posting URL and extracts its readable text. When
// the plain-HTTP extraction looks like an unrendered SPA shell and the
// browser fallback is enabled, the page is re-fetched through a headless
// browser.
func FetchPosting(ctx context.Context, urlStr string, opts *Options) (*Posting, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	html, statusCode, err := fetchHTML(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}

	text, err := ExtractText(html)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	result := &Posting{URL: urlStr, HTML: html, Text: text, StatusCode: statusCode}

	if opts.UseBrowser && looksUnrendered(text) {
		renderedHTML, err := renderWithBrowser(ctx, urlStr, opts.Timeout)
		if err != nil {
			// Keep the plain-HTTP result when the fallback is unavailable.
			return result, nil
		}
		renderedText, err := ExtractText(renderedHTML)
		if err == nil && len(renderedText) > len(text) {
			result.HTML = renderedHTML
			result.Text = renderedText
			result.Rendered = true
		}
	}

	return result, nil
}

// fetchHTML performs the plain HTTP fetch.
func fetchHTML(ctx context.Context, urlStr string, opts *Options) (string, int, error) {
	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", 0, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.StatusCode, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	return string(bodyBytes), resp.StatusCode, nil
}
