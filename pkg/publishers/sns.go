package publishers

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/khobor-archiver/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsPublisher broadcasts article events on an SNS topic.
type snsPublisher struct {
	endpoint
	topicARN string
	client   snsClient
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.AWSCredentials)
	if err != nil {
		return nil, err
	}

	return &snsPublisher{
		endpoint: endpoint{id: cfg.ID, typ: TypeSNS, log: logger.Ensure(log)},
		topicARN: cfg.SNS.TopicARN,
		client:   sns.NewFromConfig(awsCfg, withBaseEndpoint[sns.Options](cfg.SNS.Endpoint, func(o *sns.Options, ep *string) { o.BaseEndpoint = ep })),
	}, nil
}

func (s *snsPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := encodeEvent(evt)
	if err != nil {
		return err
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(msg.body)),
		MessageAttributes: attributesAs(msg.attrs, func(v string) types.MessageAttributeValue {
			return types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
		}),
	})
	if err != nil {
		return s.failed(evt, "publish to sns", err)
	}
	s.delivered(evt, aws.ToString(out.MessageId))
	return nil
}
