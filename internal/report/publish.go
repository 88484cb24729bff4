package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/Adda-Baaj/podcast-harvester/internal/crawler"
	"github.com/Adda-Baaj/podcast-harvester/internal/logger"
	"github.com/Adda-Baaj/podcast-harvester/pkg/publishers"
)

// DefaultPublishTimeout bounds one delivery to one publisher.
const DefaultPublishTimeout = 10 * time.Second

// PublishReporter forwards every report to the configured publishers.
type PublishReporter struct {
	pubs    []publishers.Publisher
	timeout time.Duration
	log     logger.Logger
	now     func() time.Time
}

// NewPublishReporter builds a reporter over pubs. Each Publish call gets its
// own deadline of timeout; a non-positive timeout means DefaultPublishTimeout.
func NewPublishReporter(pubs []publishers.Publisher, timeout time.Duration, log logger.Logger) *PublishReporter {
	if log == nil {
		log = logger.NopLogger{}
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &PublishReporter{pubs: pubs, timeout: timeout, log: log, now: time.Now}
}

// Report publishes one event to every publisher at once and returns when the
// slowest has answered or hit its deadline. Errors are joined.
func (p *PublishReporter) Report(ctx context.Context, rep crawler.Report) error {
	if len(p.pubs) == 0 {
		return nil
	}

	evt := NewEvent(rep, p.now())
	group := pool.New().WithErrors()
	for _, pub := range p.pubs {
		group.Go(func() error {
			return p.deliver(ctx, pub, evt)
		})
	}
	return group.Wait()
}

func (p *PublishReporter) deliver(ctx context.Context, pub publishers.Publisher, evt publishers.Event) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := pub.Publish(ctx, evt)
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("no answer within %s: %w", p.timeout, err)
	}
	p.log.WarnObj("publish failed", "publish_error", map[string]any{
		"publisher_id": pub.ID(),
		"feed_url":     evt.FeedURL,
		"error":        err.Error(),
	})
	return fmt.Errorf("publisher %s: %w", pub.ID(), err)
}

// NewEvent converts a report into its published form.
func NewEvent(rep crawler.Report, at time.Time) publishers.Event {
	out := rep.Outcome
	evt := publishers.Event{
		FeedURL:     string(out.Source),
		Completed:   rep.Completed,
		Total:       rep.Total,
		HarvestedAt: at.UTC(),
	}

	if out.Succeeded() {
		evt.Status = publishers.StatusSuccess
		evt.Title = out.Feed.Title
		evt.EpisodeCount = rep.EpisodeCount()
		if rep.HasPublishDate {
			evt.PublishDate = rep.PublishDate
		}
		return evt
	}

	evt.Status = publishers.StatusFailure
	if out.Err != nil {
		evt.FailureKind = out.Err.Kind
		evt.Error = out.Err.Error()
	}
	return evt
}
