package crawler

import (
	"context"

	"github.com/Adda-Baaj/podcast-harvester/internal/logger"
)

// Crawler fans feed harvests out over goroutines and collects the results.
type Crawler struct {
	worker *Worker
	log    logger.Logger
}

// New creates a Crawler. fetcher is shared by every worker and must be safe
// for concurrent use.
func New(fetcher FeedFetcher, parser FeedParser, log logger.Logger) *Crawler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Crawler{
		worker: NewWorker(fetcher, parser, log),
		log:    log,
	}
}

// Run harvests every URL and reports each outcome as it completes.
func (c *Crawler) Run(ctx context.Context, urls []string, reporters ...Reporter) Summary {
	c.log.InfoObj("harvest started", "harvest_start", map[string]any{
		"feeds": len(urls),
	})
	return c.Aggregate(ctx, c.Dispatch(ctx, urls), len(urls), reporters...)
}
