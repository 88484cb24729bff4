package publishers

import (
	"context"
	"time"

	"github.com/Adda-Baaj/podcast-harvester/internal/domain"
)

// Sink types accepted in the publishers file.
const (
	TypeHTTP   = "http"
	TypeSQS    = "aws-sqs"
	TypeSNS    = "aws-sns"
	TypePubSub = "gcp-pubsub"
)

// Event statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Event is the JSON payload published for every harvested feed.
type Event struct {
	FeedURL      string             `json:"feed_url"`
	Status       string             `json:"status"`
	Title        string             `json:"title,omitempty"`
	PublishDate  string             `json:"publish_date,omitempty"`
	EpisodeCount int                `json:"episode_count"`
	FailureKind  domain.FailureKind `json:"failure_kind,omitempty"`
	Error        string             `json:"error,omitempty"`
	Completed    int                `json:"completed"`
	Total        int                `json:"total"`
	HarvestedAt  time.Time          `json:"harvested_at"`
}

// Publisher delivers events to one sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Logger is the logging surface publishers need.
type Logger interface {
	DebugObj(msg, event string, fields map[string]any)
	InfoObj(msg, event string, fields map[string]any)
	WarnObj(msg, event string, fields map[string]any)
	ErrorObj(msg, event string, fields map[string]any)
}

type nopLogger struct{}

func (nopLogger) DebugObj(string, string, map[string]any) {}
func (nopLogger) InfoObj(string, string, map[string]any)  {}
func (nopLogger) WarnObj(string, string, map[string]any)  {}
func (nopLogger) ErrorObj(string, string, map[string]any) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}
