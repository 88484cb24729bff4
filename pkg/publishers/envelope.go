package publishers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Attribute names set on every message, whatever the sink.
const (
	AttrFeedURL     = "feed_url"
	AttrStatus      = "status"
	AttrFailureKind = "failure_kind"
	AttrRoutingKey  = "routing_key"
)

const routingPrefix = "harvest."

// RoutingKey names the stream an event belongs to: harvest.success, or
// harvest.failure.<kind> for a failure whose kind is known.
func RoutingKey(evt Event) string {
	if evt.Status != StatusFailure {
		return routingPrefix + StatusSuccess
	}
	if evt.FailureKind == 0 {
		return routingPrefix + StatusFailure
	}
	return routingPrefix + StatusFailure + "." + evt.FailureKind.String()
}

// Envelope is an event encoded once for delivery.
type Envelope struct {
	Event      Event
	Body       []byte
	Key        string
	Attributes map[string]string
}

// Seal encodes evt and derives its routing key and attributes.
func Seal(evt Event) (Envelope, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode event for %s: %w", evt.FeedURL, err)
	}

	key := RoutingKey(evt)
	attrs := map[string]string{
		AttrFeedURL:    evt.FeedURL,
		AttrStatus:     evt.Status,
		AttrRoutingKey: key,
	}
	if evt.FailureKind != 0 {
		attrs[AttrFailureKind] = evt.FailureKind.String()
	}

	return Envelope{Event: evt, Body: body, Key: key, Attributes: attrs}, nil
}

// DedupID identifies one harvest of one feed. FIFO sinks drop a second
// delivery with the same id.
func (e Envelope) DedupID() string {
	sum := sha256.Sum256([]byte(e.Event.FeedURL + "|" + e.Event.HarvestedAt.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])
}
