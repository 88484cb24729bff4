package crawler

import (
	"context"

	"github.com/Adda-Baaj/podcast-harvester/internal/domain"
	"github.com/Adda-Baaj/podcast-harvester/pkg/feeds"
)

// Report is emitted once per outcome, in completion order.
type Report struct {
	Completed int
	Total     int
	Outcome   domain.Outcome

	// PublishDate is the resolved date of a successful feed; HasPublishDate
	// is false when neither the channel nor its first episode declares one.
	PublishDate    string
	HasPublishDate bool
}

// EpisodeCount returns the number of episodes of a successful feed.
func (r Report) EpisodeCount() int {
	if r.Outcome.Feed == nil {
		return 0
	}
	return len(r.Outcome.Feed.Episodes)
}

// Reporter receives reports from the aggregator.
type Reporter interface {
	Report(ctx context.Context, r Report) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, r Report) error

func (f ReporterFunc) Report(ctx context.Context, r Report) error { return f(ctx, r) }

// Summary is the final tally of a run.
type Summary struct {
	Total     int
	Completed int
	Succeeded int
	Failed    int
	ByKind    map[domain.FailureKind]int
}

// Aggregate drains outcomes until total of them were seen and hands each one
// to every reporter. Failures and reporter errors never stop the drain.
func (c *Crawler) Aggregate(ctx context.Context, outcomes <-chan domain.Outcome, total int, reporters ...Reporter) Summary {
	sum := Summary{Total: total, ByKind: make(map[domain.FailureKind]int)}

	for sum.Completed < total {
		outcome, ok := <-outcomes
		if !ok {
			c.log.ErrorObj("outcome stream closed early", "aggregate_short", map[string]any{
				"completed": sum.Completed,
				"total":     total,
			})
			break
		}

		sum.Completed++
		if outcome.Succeeded() {
			sum.Succeeded++
		} else {
			sum.Failed++
			if outcome.Err != nil {
				sum.ByKind[outcome.Err.Kind]++
			}
		}

		rep := Report{
			Completed: sum.Completed,
			Total:     total,
			Outcome:   outcome,
		}
		if outcome.Feed != nil {
			rep.PublishDate, rep.HasPublishDate = feeds.ResolvePublishDate(outcome.Feed)
		}

		for _, r := range reporters {
			if r == nil {
				continue
			}
			if err := r.Report(ctx, rep); err != nil {
				c.log.WarnObj("reporter failed", "report_error", map[string]any{
					"url":   string(outcome.Source),
					"error": err.Error(),
				})
			}
		}
	}

	c.log.InfoObj("harvest finished", "harvest_done", map[string]any{
		"total":     sum.Total,
		"succeeded": sum.Succeeded,
		"failed":    sum.Failed,
	})
	return sum
}
