package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsSender fans sealed events out to a topic. The routing key doubles as
// the subject so email subscriptions stay readable; filter policies match
// on the status and failure_kind attributes.
type snsSender struct {
	topicARN string
	fifo     bool
	client   snsAPI
}

func newSNSSender(ctx context.Context, cfg PublisherConfig) (Sender, error) {
	c := cfg.SNS
	if c == nil {
		return nil, errors.New("sns section is missing")
	}
	awsCfg, err := loadAWSConfig(ctx, c.AWSAccess)
	if err != nil {
		return nil, err
	}
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		o.BaseEndpoint = endpointOrNil(c.Endpoint)
	})
	return &snsSender{topicARN: c.TopicARN, fifo: c.FIFO, client: client}, nil
}

func (s *snsSender) Send(ctx context.Context, env Envelope) error {
	in := &sns.PublishInput{
		TopicArn:          aws.String(s.topicARN),
		Message:           aws.String(string(env.Body)),
		Subject:           aws.String(env.Key),
		MessageAttributes: snsAttributes(env.Attributes),
	}
	if s.fifo {
		in.MessageGroupId = aws.String(env.Key)
		in.MessageDeduplicationId = aws.String(env.DedupID())
	}

	if _, err := s.client.Publish(ctx, in); err != nil {
		return fmt.Errorf("publish to %s: %w", s.topicARN, err)
	}
	return nil
}

func (s *snsSender) Close() error { return nil }

func snsAttributes(attrs map[string]string) map[string]snstypes.MessageAttributeValue {
	out := make(map[string]snstypes.MessageAttributeValue, len(attrs))
	for name, val := range attrs {
		if val != "" {
			out[name] = snstypes.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(val)}
		}
	}
	return out
}
