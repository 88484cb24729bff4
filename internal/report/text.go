package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/Adda-Baaj/podcast-harvester/internal/crawler"
)

// NoPublishDate is printed when a feed declares no usable publish date.
const NoPublishDate = "No pub date found"

// TextReporter writes one human readable block per outcome.
type TextReporter struct {
	mu sync.Mutex
	w  io.Writer

	counter lipgloss.Style
	label   lipgloss.Style
	title   lipgloss.Style
	failure lipgloss.Style
}

// NewTextReporter styles output for w. Writers that are not terminals get
// plain text.
func NewTextReporter(w io.Writer) *TextReporter {
	r := lipgloss.NewRenderer(w)
	return &TextReporter{
		w:       w,
		counter: r.NewStyle().Faint(true),
		label:   r.NewStyle().Bold(true),
		title:   r.NewStyle().Foreground(lipgloss.Color("12")),
		failure: r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Report writes the block for one outcome.
func (t *TextReporter) Report(_ context.Context, rep crawler.Report) error {
	var b strings.Builder
	b.WriteString(t.counter.Render(fmt.Sprintf("Counter: %d/%d", rep.Completed, rep.Total)))
	b.WriteByte('\n')

	if out := rep.Outcome; out.Succeeded() {
		t.line(&b, "Title", t.title.Render(out.Feed.Title))
		if rep.HasPublishDate {
			t.line(&b, "Pub Date", rep.PublishDate)
		} else {
			b.WriteString(NoPublishDate)
			b.WriteByte('\n')
		}
		t.line(&b, "Episodes", fmt.Sprint(rep.EpisodeCount()))
	} else {
		msg := fmt.Sprintf("Error fetching feed: %s", out.Source)
		if out.Err != nil {
			msg = "Error fetching feed: " + out.Err.Error()
		}
		b.WriteString(t.failure.Render(msg))
		b.WriteByte('\n')
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.w, b.String())
	return err
}

// Summary writes the closing tally of a run.
func (t *TextReporter) Summary(sum crawler.Summary) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "Harvested %d/%d feeds: %d succeeded, %d failed\n",
		sum.Completed, sum.Total, sum.Succeeded, sum.Failed)
	return err
}

func (t *TextReporter) line(b *strings.Builder, label, value string) {
	b.WriteString(t.label.Render(label + ":"))
	b.WriteByte(' ')
	b.WriteString(value)
	b.WriteByte('\n')
}
