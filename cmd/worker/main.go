package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/kyangwi/portfolio/adapters/event"
	"github.com/kyangwi/portfolio/adapters/persistence"
	"github.com/kyangwi/portfolio/internal/cache"
	"github.com/kyangwi/portfolio/internal/config"
	"github.com/kyangwi/portfolio/internal/content"
	"github.com/kyangwi/portfolio/pkg/logger"
)

// The worker consumes two topics: view.events folds course visits into the
// access log, content.events drops this instance's cache entries when
// another instance mutated content.
func main() {
	fmt.Println("Starting Portfolio Worker...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	store := persistence.NewPostgresDocStore(dbPool)
	repo := content.New(store, cache.NewRedis(redisClient), appLogger)

	viewConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicViewEvents,
		GroupID:  "access-log-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer viewConsumer.Close()

	contentConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicContentEvents,
		GroupID:  "cache-invalidation-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer contentConsumer.Close()

	ctx := context.Background()

	go consumeContentEvents(ctx, contentConsumer, repo)

	log.Printf("Worker listening on topic '%s'...", event.TopicViewEvents)
	for {
		msg, err := viewConsumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		var payload event.ViewEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal view event: %v. Skipping.", err)
			commitMessage(viewConsumer, msg)
			continue
		}

		if err := repo.LogCourseAccess(ctx, payload.UserID, payload.Email); err != nil {
			log.Printf("ERROR: Failed to log access for user %s: %v", payload.UserID, err)
			continue
		}

		commitMessage(viewConsumer, msg)
	}
}

func consumeContentEvents(ctx context.Context, consumer *kafka.Reader, repo *content.Repository) {
	log.Printf("Worker listening on topic '%s'...", event.TopicContentEvents)
	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		var payload event.ContentEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal content event: %v. Skipping.", err)
			commitMessage(consumer, msg)
			continue
		}

		repo.InvalidateEntity(ctx, content.Entity(payload.Entity), payload.ID)
		commitMessage(consumer, msg)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Printf("ERROR: Failed to commit message: %v", err)
	}
}
