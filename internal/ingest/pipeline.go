// Package ingest turns a bare URL into a fully-populated bookmark. The
// metadata and readable-text lookups run concurrently and both absorb their
// own failures, so an ingestion only fails when the store does.
package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/marquelabs/marque/internal/meta"
	"github.com/marquelabs/marque/internal/metrics"
	"github.com/marquelabs/marque/internal/reader"
	"github.com/marquelabs/marque/internal/store"
	"github.com/marquelabs/marque/internal/summary"
)

const (
	// maxSummaryInput caps the text handed to the summarizer.
	maxSummaryInput = 15000
	// minReadableLen is the threshold below which extracted text is
	// discarded in favor of a synthesized title/URL placeholder.
	minReadableLen = 50
)

// Options are the caller-provided extras for an ingestion.
type Options struct {
	Tags          []string
	TitleOverride string
}

// Pipeline orchestrates metadata, reader, and summarizer lookups and
// persists the assembled bookmark.
type Pipeline struct {
	meta       *meta.Fetcher
	reader     reader.Extractor
	summarizer *summary.Summarizer
	bookmarks  store.BookmarkStore
}

func New(m *meta.Fetcher, r reader.Extractor, s *summary.Summarizer, bookmarks store.BookmarkStore) *Pipeline {
	return &Pipeline{meta: m, reader: r, summarizer: s, bookmarks: bookmarks}
}

// Ingest builds and stores a bookmark for pageURL. The caller has already
// validated that pageURL is non-empty. Only store errors propagate.
func (p *Pipeline) Ingest(ctx context.Context, userID, pageURL string, opts Options) (*store.Bookmark, error) {
	start := time.Now()

	var (
		md       meta.Metadata
		readable string
	)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		md = p.meta.Fetch(ctx, pageURL)
	}()
	go func() {
		defer wg.Done()
		readable = p.reader.Extract(ctx, pageURL)
	}()
	wg.Wait()

	if md.Title == pageURL {
		metrics.MetadataFallbacksTotal.Inc()
	}
	if readable == "" {
		metrics.ReaderEmptyTotal.Inc()
	}

	title := opts.TitleOverride
	if title == "" {
		title = md.Title
	}

	bm, err := p.bookmarks.Create(ctx, store.BookmarkFields{
		UserID:  userID,
		URL:     pageURL,
		Title:   title,
		Favicon: md.Favicon,
		Summary: p.summarizer.Summarize(ctx, summaryInput(readable, title, pageURL)),
		Tags:    opts.Tags,
	})
	if err != nil {
		metrics.IngestsTotal.WithLabelValues("store_error").Inc()
		return nil, err
	}

	metrics.IngestsTotal.WithLabelValues("ok").Inc()
	metrics.IngestDuration.Observe(time.Since(start).Seconds())
	return bm, nil
}

// summaryInput picks the summarizer input: extracted text when it is
// substantial (capped at maxSummaryInput characters), otherwise a
// placeholder combining the resolved title and the URL so the summarizer
// always receives meaningful text.
func summaryInput(readable, title, pageURL string) string {
	runes := []rune(readable)
	if len(runes) > minReadableLen {
		if len(runes) > maxSummaryInput {
			return string(runes[:maxSummaryInput])
		}
		return readable
	}
	return title + " — " + pageURL
}
