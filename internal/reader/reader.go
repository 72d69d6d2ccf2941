// Package reader extracts cleaned article text for a URL. Extractors never
// return an error: an unavailable or unconfigured backend degrades to empty
// text and the caller synthesizes its own summarizer input.
package reader

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// Extractor returns readable article text for a URL, or "" when none is
// available. No retries; a single attempt per call.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) string
}

// New selects an extractor. "local" runs readability in-process. The
// default is the remote reader service when an API key is configured,
// otherwise extraction is disabled entirely (no network call is made).
func New(provider, baseURL, apiKey string, timeout time.Duration) Extractor {
	switch {
	case provider == "local":
		return &Local{client: &http.Client{Timeout: timeout}}
	case apiKey != "":
		return &Remote{
			baseURL: strings.TrimRight(baseURL, "/"),
			apiKey:  apiKey,
			client:  &http.Client{Timeout: timeout},
		}
	default:
		return Disabled{}
	}
}

// Disabled is the unconfigured mode: always empty text.
type Disabled struct{}

func (Disabled) Extract(ctx context.Context, pageURL string) string { return "" }

// Remote asks a Jina-style reader service for cleaned text. The target URL
// is appended to the reader base URL and the request carries a bearer token.
type Remote struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func (r *Remote) Extract(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/"+pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ""
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(body)
}

// Local fetches the page itself and runs readability in-process. Selected
// with reader.provider = local; useful when no reader-service key exists
// but readable text is still wanted.
type Local struct {
	client *http.Client
}

func (l *Local) Extract(ctx context.Context, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ""
	}
	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return ""
	}
	return article.TextContent
}
