package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsSender enqueues sealed events. On FIFO queues each routing key is its
// own message group.
type sqsSender struct {
	queueURL string
	fifo     bool
	client   sqsAPI
}

func newSQSSender(ctx context.Context, cfg PublisherConfig) (Sender, error) {
	c := cfg.SQS
	if c == nil {
		return nil, errors.New("sqs section is missing")
	}
	awsCfg, err := loadAWSConfig(ctx, c.AWSAccess)
	if err != nil {
		return nil, err
	}
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		o.BaseEndpoint = endpointOrNil(c.Endpoint)
	})
	return &sqsSender{queueURL: c.QueueURL, fifo: c.FIFO, client: client}, nil
}

func (s *sqsSender) Send(ctx context.Context, env Envelope) error {
	in := &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queueURL),
		MessageBody:       aws.String(string(env.Body)),
		MessageAttributes: sqsAttributes(env.Attributes),
	}
	if s.fifo {
		in.MessageGroupId = aws.String(env.Key)
		in.MessageDeduplicationId = aws.String(env.DedupID())
	}

	if _, err := s.client.SendMessage(ctx, in); err != nil {
		return fmt.Errorf("send to %s: %w", s.queueURL, err)
	}
	return nil
}

func (s *sqsSender) Close() error { return nil }

// sqsAttributes drops blank values, which SQS rejects.
func sqsAttributes(attrs map[string]string) map[string]sqstypes.MessageAttributeValue {
	out := make(map[string]sqstypes.MessageAttributeValue, len(attrs))
	for name, val := range attrs {
		if val != "" {
			out[name] = sqstypes.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(val)}
		}
	}
	return out
}
