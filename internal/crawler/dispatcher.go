package crawler

import (
	"context"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/Adda-Baaj/podcast-harvester/internal/domain"
)

// Dispatch starts one worker per URL and returns at once. Every worker is in
// flight at the same time; there is no admission limit. The returned channel
// yields exactly len(urls) outcomes in completion order and is then closed.
func (c *Crawler) Dispatch(ctx context.Context, urls []string) <-chan domain.Outcome {
	out := make(chan domain.Outcome, len(urls))

	var wg conc.WaitGroup
	for _, u := range urls {
		src := domain.FeedSource(u)
		wg.Go(func() {
			out <- c.runWorker(ctx, src)
		})
	}

	c.log.DebugObj("workers dispatched", "dispatch", map[string]any{
		"workers": len(urls),
	})

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// runWorker turns a crashed worker into a WorkerInfrastructure outcome so the
// URL is still accounted for.
func (c *Crawler) runWorker(ctx context.Context, src domain.FeedSource) (outcome domain.Outcome) {
	var pc panics.Catcher
	pc.Try(func() {
		outcome = c.worker.Process(ctx, src)
	})
	recovered := pc.Recovered()
	if recovered == nil {
		return outcome
	}

	c.log.ErrorObj("feed worker crashed", "worker_panic", map[string]any{
		"url":   string(src),
		"panic": recovered.String(),
	})
	return domain.Failure(src, domain.NewFeedError(domain.KindWorkerInfrastructure, string(src), recovered.AsError()))
}
