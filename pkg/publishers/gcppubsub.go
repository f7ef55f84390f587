package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/Adda-Baaj/khobor-archiver/internal/logger"
	"google.golang.org/api/option"
)

// gcpPubSubPublisher publishes article events to a Pub/Sub topic and waits
// for each server acknowledgement.
type gcpPubSubPublisher struct {
	endpoint
	client *pubsub.Client
	topic  *pubsub.Topic
}

// newGCPPubSubPublisher connects to the configured project and topic. The
// PUBSUB_EMULATOR_HOST environment variable is honored by the client library.
func newGCPPubSubPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.GCPPubSub == nil {
		return nil, fmt.Errorf("publisher %q missing gcp_pubsub configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := pubsub.NewClient(ctx, cfg.GCPPubSub.ProjectID, pubsubOptions(cfg.GCPPubSub)...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &gcpPubSubPublisher{
		endpoint: endpoint{id: cfg.ID, typ: TypeGCPPubSub, log: logger.Ensure(log)},
		client:   client,
		topic:    client.Topic(cfg.GCPPubSub.Topic),
	}, nil
}

func pubsubOptions(cfg *GCPPubSubPublisherConfig) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	return opts
}

func (g *gcpPubSubPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := encodeEvent(evt)
	if err != nil {
		return err
	}

	id, err := g.topic.Publish(ctx, &pubsub.Message{Data: msg.body, Attributes: msg.attrs}).Get(ctx)
	if err != nil {
		return g.failed(evt, "publish to pubsub", err)
	}
	g.delivered(evt, id)
	return nil
}

// Close flushes pending messages and closes the client.
func (g *gcpPubSubPublisher) Close() error {
	g.topic.Stop()
	return g.client.Close()
}
