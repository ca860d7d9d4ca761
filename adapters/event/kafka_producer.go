package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kyangwi/portfolio/internal/config"
	"github.com/kyangwi/portfolio/internal/content"
)

const (
	TopicContentEvents = "content.events"
	TopicViewEvents    = "view.events"
)

// ContentEventPayload announces a mutation so other instances drop their
// cached copies of the affected entity.
type ContentEventPayload struct {
	Entity string    `json:"entity"`
	Action string    `json:"action"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"at"`
}

// ViewEventPayload records a course-area visit; the worker folds it into
// the access log.
type ViewEventPayload struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

type KafkaProducerClient struct {
	ContentEventsWriter *kafka.Writer
	ViewEventsWriter    *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	contentWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicContentEvents,
		Balancer: &kafka.LeastBytes{},
	}

	viewWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicViewEvents,
		Balancer: &kafka.LeastBytes{},
	}

	fmt.Println("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		ContentEventsWriter: contentWriter,
		ViewEventsWriter:    viewWriter,
	}, nil
}

// ContentChanged implements content.Notifier.
func (c *KafkaProducerClient) ContentChanged(ctx context.Context, entity content.Entity, action, id string) error {
	raw, err := json.Marshal(ContentEventPayload{
		Entity: string(entity),
		Action: action,
		ID:     id,
		At:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode content event: %w", err)
	}
	return c.ContentEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entity),
		Value: raw,
	})
}

// CourseViewed queues a view event for the access-log worker.
func (c *KafkaProducerClient) CourseViewed(ctx context.Context, userID, email string) error {
	raw, err := json.Marshal(ViewEventPayload{
		UserID: userID,
		Email:  email,
		At:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode view event: %w", err)
	}
	return c.ViewEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID),
		Value: raw,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.ContentEventsWriter != nil {
		c.ContentEventsWriter.Close()
	}
	if c.ViewEventsWriter != nil {
		c.ViewEventsWriter.Close()
	}
	fmt.Println("Closed Kafka Producers")
}
