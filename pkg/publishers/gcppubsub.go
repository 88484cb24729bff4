package publishers

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubSender publishes sealed events to a Pub/Sub topic and waits for the
// server ack.
type pubsubSender struct {
	client  *pubsub.Client
	topic   *pubsub.Topic
	ordered bool
}

func newPubSubSender(ctx context.Context, cfg PublisherConfig) (Sender, error) {
	c := cfg.PubSub
	if c == nil {
		return nil, errors.New("pubsub section is missing")
	}

	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	client, err := pubsub.NewClient(ctx, c.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client for %s: %w", c.ProjectID, err)
	}

	topic := client.Topic(c.Topic)
	topic.EnableMessageOrdering = c.Ordered
	return &pubsubSender{client: client, topic: topic, ordered: c.Ordered}, nil
}

func (s *pubsubSender) Send(ctx context.Context, env Envelope) error {
	msg := &pubsub.Message{Data: env.Body, Attributes: env.Attributes}
	if s.ordered {
		msg.OrderingKey = env.Key
	}

	if _, err := s.topic.Publish(ctx, msg).Get(ctx); err != nil {
		// An ordered key stays paused after a failure until resumed.
		if s.ordered {
			s.topic.ResumePublish(env.Key)
		}
		return fmt.Errorf("publish to %s: %w", s.topic.ID(), err)
	}
	return nil
}

// Close flushes pending messages and releases the client.
func (s *pubsubSender) Close() error {
	s.topic.Stop()
	return s.client.Close()
}
