package publishers

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/khobor-archiver/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher enqueues one message per article on an SQS queue.
type sqsPublisher struct {
	endpoint
	queueURL string
	client   sqsClient
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.AWSCredentials)
	if err != nil {
		return nil, err
	}

	return &sqsPublisher{
		endpoint: endpoint{id: cfg.ID, typ: TypeSQS, log: logger.Ensure(log)},
		queueURL: cfg.SQS.QueueURL,
		client:   sqs.NewFromConfig(awsCfg, withBaseEndpoint[sqs.Options](cfg.SQS.Endpoint, func(o *sqs.Options, ep *string) { o.BaseEndpoint = ep })),
	}, nil
}

func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := encodeEvent(evt)
	if err != nil {
		return err
	}

	out, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(msg.body)),
		MessageAttributes: attributesAs(msg.attrs, func(v string) types.MessageAttributeValue {
			return types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
		}),
	})
	if err != nil {
		return s.failed(evt, "send message to sqs", err)
	}
	s.delivered(evt, aws.ToString(out.MessageId))
	return nil
}
