package main

import (
	"fmt"
	"log"

	"github.com/kyangwi/portfolio/adapters/event"
	httpAdapter "github.com/kyangwi/portfolio/adapters/http"
	"github.com/kyangwi/portfolio/adapters/media_storage"
	"github.com/kyangwi/portfolio/adapters/persistence"
	"github.com/kyangwi/portfolio/internal/cache"
	"github.com/kyangwi/portfolio/internal/config"
	"github.com/kyangwi/portfolio/internal/content"
	"github.com/kyangwi/portfolio/internal/editor"
	"github.com/kyangwi/portfolio/internal/imaging"
	"github.com/kyangwi/portfolio/pkg/auth"
	"github.com/kyangwi/portfolio/pkg/logger"
)

func main() {
	fmt.Println("Start Portfolio API Server...")

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Initialize dependencies
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

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Content repository over the document store and cache
	store := persistence.NewPostgresDocStore(dbPool)
	repo := content.New(store, cache.NewRedis(redisClient), appLogger,
		content.WithNotifier(kafkaClient))

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	compressor := imaging.NewCompressor()

	var uploader editor.Uploader
	uploader, err = media_storage.NewCloudinaryAdapter(cfg)
	if err != nil {
		appLogger.Warn("Cloudinary not configured, image originals will not be archived")
		uploader = nil
	}

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:        httpAdapter.NewAuthHandler(repo, jwtSvc),
		Project:     httpAdapter.NewProjectHandler(repo),
		Blog:        httpAdapter.NewBlogHandler(repo, compressor, uploader, appLogger),
		Course:      httpAdapter.NewCourseHandler(repo, compressor, uploader, kafkaClient, appLogger),
		Achievement: httpAdapter.NewAchievementHandler(repo),
		CV:          httpAdapter.NewCVHandler(repo),
		Media:       httpAdapter.NewMediaHandler(compressor, uploader, appLogger),
	}

	router := httpAdapter.NewRouter(handlers, httpAdapter.AuthMiddleware(jwtSvc), appLogger)

	addr := ":" + cfg.App.Port
	fmt.Printf("Server listening on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("FATAL: server stopped: %v", err)
	}
}
