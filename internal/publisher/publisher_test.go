package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ebarrios/tgsearch/internal/ingest"
)

// MockNATSClient mocks the nats client operations we need
type MockNATSClient struct {
	PublishedSubject string
	PublishedData    []byte
	PublishError     error
}

func (m *MockNATSClient) Publish(subject string, data []byte) error {
	m.PublishedSubject = subject
	m.PublishedData = data
	return m.PublishError
}

func TestNATSPublisher_PublishChatIngested(t *testing.T) {
	mock := &MockNATSClient{}
	pub := &NATSPublisher{nc: mock}

	event := ingest.ChatIngestedEvent{
		RunID:     uuid.New(),
		ChatID:    -100123,
		Title:     "Mercado libre",
		Persisted: 42,
		Rejected:  3,
		At:        time.Now().UTC(),
	}

	err := pub.PublishChatIngested(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.PublishedSubject != "ingest.chat" {
		t.Errorf("subject = %s, want ingest.chat", mock.PublishedSubject)
	}

	var decoded ingest.ChatIngestedEvent
	if err := json.Unmarshal(mock.PublishedData, &decoded); err != nil {
		t.Fatalf("payload is not valid json: %v", err)
	}
	if decoded.ChatID != event.ChatID || decoded.Persisted != event.Persisted {
		t.Errorf("decoded = %+v, want %+v", decoded, event)
	}
}

func TestNATSPublisher_PublishRunCompleted(t *testing.T) {
	mock := &MockNATSClient{}
	pub := &NATSPublisher{nc: mock}

	event := ingest.RunCompletedEvent{
		RunID:    uuid.New(),
		Chats:    7,
		Messages: 1200,
		At:       time.Now().UTC(),
	}

	err := pub.PublishRunCompleted(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.PublishedSubject != "ingest.run" {
		t.Errorf("subject = %s, want ingest.run", mock.PublishedSubject)
	}
}

func TestNATSPublisher_PublishError(t *testing.T) {
	mock := &MockNATSClient{PublishError: errors.New("connection closed")}
	pub := &NATSPublisher{nc: mock}

	err := pub.PublishRunCompleted(context.Background(), ingest.RunCompletedEvent{RunID: uuid.New()})
	if err == nil {
		t.Fatal("expected error")
	}
}
