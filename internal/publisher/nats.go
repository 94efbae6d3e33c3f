// Package publisher publishes crawl progress events to NATS.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/ebarrios/tgsearch/internal/ingest"
)

// NATSClient interface to allow mocking
type NATSClient interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher implements ingest.EventPublisher
type NATSPublisher struct {
	nc NATSClient
}

// NewNATSPublisher creates a new publisher
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{nc: conn}
}

// PublishChatIngested publishes a per-chat crawl summary
func (p *NATSPublisher) PublishChatIngested(ctx context.Context, event ingest.ChatIngestedEvent) error {
	return p.publish("ingest.chat", event)
}

// PublishRunCompleted publishes the end-of-run summary
func (p *NATSPublisher) PublishRunCompleted(ctx context.Context, event ingest.RunCompletedEvent) error {
	return p.publish("ingest.run", event)
}

func (p *NATSPublisher) publish(subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}
