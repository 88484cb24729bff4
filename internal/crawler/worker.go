package crawler

import (
	"context"
	"errors"

	"github.com/Adda-Baaj/podcast-harvester/internal/domain"
	"github.com/Adda-Baaj/podcast-harvester/internal/logger"
)

// FeedFetcher downloads a feed body. Implementations must be safe for
// concurrent use.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FeedParser decodes a feed body.
type FeedParser interface {
	Parse(raw []byte) (*domain.FeedDocument, error)
}

// Worker harvests one feed: fetch, then parse.
type Worker struct {
	fetcher FeedFetcher
	parser  FeedParser
	log     logger.Logger
}

// NewWorker creates a Worker. The fetcher is shared by every call to Process.
func NewWorker(fetcher FeedFetcher, parser FeedParser, log logger.Logger) *Worker {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Worker{fetcher: fetcher, parser: parser, log: log}
}

// Process runs one harvest to completion and never retries. The first failing
// step decides the outcome.
func (w *Worker) Process(ctx context.Context, src domain.FeedSource) domain.Outcome {
	url := string(src)

	w.log.InfoObj("fetching feed", "fetch_start", map[string]any{
		"url": url,
	})

	raw, err := w.fetcher.Fetch(ctx, url)
	if err != nil {
		fe := asFeedError(domain.KindTransport, url, err)
		w.log.WarnObj("feed fetch failed", "fetch_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		return domain.Failure(src, fe)
	}

	doc, err := w.parser.Parse(raw)
	if err != nil {
		fe := asFeedError(domain.KindParse, url, err)
		w.log.WarnObj("feed parse failed", "parse_error", map[string]any{
			"url":   url,
			"bytes": len(raw),
			"error": err.Error(),
		})
		return domain.Failure(src, fe)
	}

	w.log.DebugObj("feed parsed", "parse_done", map[string]any{
		"url":      url,
		"title":    doc.Title,
		"episodes": len(doc.Episodes),
	})
	return domain.Success(src, doc)
}

// asFeedError keeps an existing FeedError and tags anything else with kind.
func asFeedError(kind domain.FailureKind, url string, err error) *domain.FeedError {
	var fe *domain.FeedError
	if errors.As(err, &fe) {
		return fe
	}
	return domain.NewFeedError(kind, url, err)
}
