// Package meta resolves a display title and favicon for a URL. Every
// failure degrades to a usable result; Fetch never returns an error.
package meta

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultFaviconService is the fallback favicon-by-domain URL template.
// The %s placeholder receives the page hostname. The service URL is
// returned to the caller, never fetched here.
const DefaultFaviconService = "https://www.google.com/s2/favicons?domain=%s"

// Metadata is the resolved title and favicon for a page.
type Metadata struct {
	Title   string
	Favicon string
}

// Fetcher retrieves a page and extracts its title and favicon.
type Fetcher struct {
	client         *http.Client
	faviconService string
}

// NewFetcher creates a Fetcher with a hard per-request timeout and the
// favicon-by-domain service template used for fallbacks.
func NewFetcher(timeout time.Duration, faviconService string) *Fetcher {
	if faviconService == "" {
		faviconService = DefaultFaviconService
	}
	return &Fetcher{
		client:         &http.Client{Timeout: timeout},
		faviconService: faviconService,
	}
}

// Fetch issues a single GET for pageURL and resolves title and favicon via
// ordered candidate chains. On any failure (transport error, non-2xx,
// unparseable body) it returns the degraded result: the URL itself as title
// and the domain-favicon service URL.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) Metadata {
	degraded := Metadata{Title: pageURL, Favicon: f.fallbackFavicon(pageURL)}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return degraded
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return degraded
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return degraded
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return degraded
	}

	title := firstNonEmpty(
		func() string { return strings.TrimSpace(doc.Find("title").First().Text()) },
		metaContent(doc, `meta[property="og:title"]`),
		metaContent(doc, `meta[name="twitter:title"]`),
	)
	if title == "" {
		title = pageURL
	}

	favicon := firstNonEmpty(
		linkHref(doc, `link[rel~="icon"]`),
		linkHref(doc, `link[rel="shortcut icon"]`),
	)
	favicon = f.resolveFavicon(pageURL, favicon)
	if favicon == "" {
		favicon = f.fallbackFavicon(pageURL)
	}

	return Metadata{Title: title, Favicon: favicon}
}

// firstNonEmpty evaluates candidates in order and returns the first
// non-empty result.
func firstNonEmpty(candidates ...func() string) string {
	for _, candidate := range candidates {
		if v := candidate(); v != "" {
			return v
		}
	}
	return ""
}

func metaContent(doc *goquery.Document, selector string) func() string {
	return func() string {
		content, _ := doc.Find(selector).First().Attr("content")
		return strings.TrimSpace(content)
	}
}

func linkHref(doc *goquery.Document, selector string) func() string {
	return func() string {
		href, _ := doc.Find(selector).First().Attr("href")
		return strings.TrimSpace(href)
	}
}

// resolveFavicon makes a relative favicon href absolute against the page's
// origin. Unresolvable hrefs collapse to "" so the caller falls through to
// the domain-favicon service.
func (f *Fetcher) resolveFavicon(pageURL, favicon string) string {
	if favicon == "" || strings.HasPrefix(favicon, "http") {
		return favicon
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(favicon)
	if err != nil {
		return ""
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}
	return origin.ResolveReference(ref).String()
}

func (f *Fetcher) fallbackFavicon(pageURL string) string {
	host := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	return fmt.Sprintf(f.faviconService, host)
}
