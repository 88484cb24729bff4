package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/podcast-harvester/internal/crawler"
	"github.com/Adda-Baaj/podcast-harvester/internal/domain"
	"github.com/Adda-Baaj/podcast-harvester/pkg/publishers"
)

func successReport(date string) crawler.Report {
	doc := &domain.FeedDocument{Title: "X", Episodes: make([]domain.Episode, 2)}
	return crawler.Report{
		Completed:      1,
		Total:          3,
		Outcome:        domain.Success("https://a.example/feed", doc),
		PublishDate:    date,
		HasPublishDate: date != "",
	}
}

func failureReport(kind domain.FailureKind) crawler.Report {
	url := "https://b.example/feed"
	return crawler.Report{
		Completed: 2,
		Total:     3,
		Outcome:   domain.Failure(domain.FeedSource(url), domain.NewFeedError(kind, url, errors.New("status 404"))),
	}
}

func TestTextReporterSuccess(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	if err := r.Report(context.Background(), successReport("2020-01-01")); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Counter: 1/3", "Title: X", "Pub Date: 2020-01-01", "Episodes: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestTextReporterMissingDate(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextReporter(&buf).Report(context.Background(), successReport("")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), NoPublishDate) {
		t.Fatalf("output %q missing absence marker", buf.String())
	}
	if strings.Contains(buf.String(), "Pub Date:") {
		t.Fatalf("output %q should not print a date line", buf.String())
	}
}

func TestTextReporterFailure(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)
	if err := r.Report(context.Background(), failureReport(domain.KindTransport)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Counter: 2/3", "https://b.example/feed", domain.KindTransport.Describe(), "status 404"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}

	if err := r.Summary(crawler.Summary{Total: 3, Completed: 3, Succeeded: 1, Failed: 2}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Harvested 3/3 feeds: 1 succeeded, 2 failed") {
		t.Fatalf("summary missing from %q", buf.String())
	}
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	ok := NewEvent(successReport("2020-01-01"), at)
	if ok.Status != publishers.StatusSuccess || ok.Title != "X" || ok.EpisodeCount != 2 || ok.PublishDate != "2020-01-01" {
		t.Fatalf("success event = %+v", ok)
	}
	if !ok.HarvestedAt.Equal(at) || ok.HarvestedAt.Location() != time.UTC {
		t.Fatalf("harvested_at = %v; want UTC of %v", ok.HarvestedAt, at)
	}

	bad := NewEvent(failureReport(domain.KindParse), at)
	if bad.Status != publishers.StatusFailure || bad.FailureKind != domain.KindParse || bad.Error == "" {
		t.Fatalf("failure event = %+v", bad)
	}
	if bad.Completed != 2 || bad.Total != 3 {
		t.Fatalf("counter = %d/%d", bad.Completed, bad.Total)
	}
}

type memPublisher struct {
	id     string
	err    error
	mu     sync.Mutex
	events []publishers.Event
}

func (m *memPublisher) ID() string   { return m.id }
func (m *memPublisher) Type() string { return "mem" }
func (m *memPublisher) Close() error { return nil }
func (m *memPublisher) Publish(_ context.Context, evt publishers.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return m.err
}

// stuckPublisher never answers on its own.
type stuckPublisher struct{}

func (stuckPublisher) ID() string   { return "stuck" }
func (stuckPublisher) Type() string { return "mem" }
func (stuckPublisher) Close() error { return nil }
func (stuckPublisher) Publish(ctx context.Context, _ publishers.Event) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestPublishReporterFansOut(t *testing.T) {
	good := &memPublisher{id: "good"}
	bad := &memPublisher{id: "bad", err: errors.New("queue down")}
	r := NewPublishReporter([]publishers.Publisher{bad, good}, time.Second, nil)

	err := r.Report(context.Background(), successReport("2020-01-01"))
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Fatalf("expected joined error naming bad publisher, got %v", err)
	}
	if len(good.events) != 1 || len(bad.events) != 1 {
		t.Fatalf("events delivered: good=%d bad=%d", len(good.events), len(bad.events))
	}

	if err := NewPublishReporter(nil, 0, nil).Report(context.Background(), successReport("")); err != nil {
		t.Fatalf("empty reporter returned %v", err)
	}
}

func TestPublishReporterBoundsSlowPublishers(t *testing.T) {
	good := &memPublisher{id: "good"}
	r := NewPublishReporter([]publishers.Publisher{stuckPublisher{}, good}, 50*time.Millisecond, nil)

	start := time.Now()
	err := r.Report(context.Background(), failureReport(domain.KindTransport))
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Report took %s; stuck publisher was not cut off", elapsed)
	}
	if !errors.Is(err, context.DeadlineExceeded) || !strings.Contains(err.Error(), "stuck") {
		t.Fatalf("expected deadline error naming stuck publisher, got %v", err)
	}
	if len(good.events) != 1 {
		t.Fatalf("good publisher got %d events; want 1", len(good.events))
	}
}

func TestNewPublishReporterDefaultsTimeout(t *testing.T) {
	if r := NewPublishReporter(nil, 0, nil); r.timeout != DefaultPublishTimeout {
		t.Fatalf("timeout = %s; want %s", r.timeout, DefaultPublishTimeout)
	}
}
