package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

// PubSub publishes each output record as a JSON message on a topic.
type PubSub struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSub wraps an existing Pub/Sub client and topic ID.
func NewPubSub(client *pubsub.Client, topicID string) (*PubSub, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client is required")
	}
	if topicID == "" {
		return nil, fmt.Errorf("topic ID is required")
	}
	return &PubSub{
		client: client,
		topic:  client.Topic(topicID),
	}, nil
}

// Emit publishes rec and waits for the server acknowledgement so callers
// see publish failures synchronously.
func (s *PubSub) Emit(ctx context.Context, rec extractor.OutputRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	result := s.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"companyDomain": rec.CompanyDomain,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish record: %w", err)
	}
	return nil
}

// Close stops the topic's publish goroutines. The underlying client is
// owned by the caller.
func (s *PubSub) Close() error {
	s.topic.Stop()
	return nil
}
