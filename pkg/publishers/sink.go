package publishers

import (
	"context"
	"fmt"
)

// Sender hands one sealed event to a provider.
type Sender interface {
	Send(ctx context.Context, env Envelope) error
	Close() error
}

// sink is the Publisher behind every configured entry: a route filter in
// front of a provider sender.
type sink struct {
	id     string
	typ    string
	route  routeFilter
	sender Sender
	log    Logger
}

func (s *sink) ID() string   { return s.id }
func (s *sink) Type() string { return s.typ }

// Publish seals evt and sends it unless the route excludes it.
func (s *sink) Publish(ctx context.Context, evt Event) error {
	if !s.route.allows(evt) {
		s.log.DebugObj("event outside publisher route", "publisher_route_skip", map[string]any{
			"publisher_id": s.id,
			"routing_key":  RoutingKey(evt),
		})
		return nil
	}

	env, err := Seal(evt)
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, env); err != nil {
		s.log.WarnObj("publisher delivery failed", "publisher_send_error", map[string]any{
			"publisher_id": s.id,
			"type":         s.typ,
			"routing_key":  env.Key,
			"feed_url":     evt.FeedURL,
			"error":        err.Error(),
		})
		return fmt.Errorf("%s publisher %s: %w", s.typ, s.id, err)
	}

	s.log.DebugObj("event delivered", "publisher_delivery", map[string]any{
		"publisher_id": s.id,
		"routing_key":  env.Key,
		"feed_url":     evt.FeedURL,
	})
	return nil
}

func (s *sink) Close() error { return s.sender.Close() }
