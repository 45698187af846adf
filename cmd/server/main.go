// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/smsinbound-backend/internal/config"
	"github.com/unclebandit/smsinbound-backend/internal/controller"
	"github.com/unclebandit/smsinbound-backend/internal/db"
	"github.com/unclebandit/smsinbound-backend/internal/handler"
	"github.com/unclebandit/smsinbound-backend/internal/queue"
	"github.com/unclebandit/smsinbound-backend/internal/repository"
	"github.com/unclebandit/smsinbound-backend/internal/service"
	"github.com/unclebandit/smsinbound-backend/internal/signature"
)

func main() {
	cfg := config.Load()

	verifier := signature.NewVerifier(cfg.WebhookSecret)
	if !verifier.Configured() {
		log.Println("⚠️ WEBHOOK_SECRET not set; /webhook will reject every delivery and /health/ready reports 503")
	}

	var repo repository.MessageRepositoryInterface
	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to DB: %v", err)
		}
		defer sqlDB.Close()
		repo = &repository.MessageRepository{DB: sqlDB}
		log.Println("✅ Connected to database")
	} else {
		repo = repository.NewMemoryMessageRepository()
		log.Println("⚠️ No database configured, using in-memory message store")
	}

	events := queue.NewInMemoryQueue()
	queue.StartIngestEventLogger(events)
	if cfg.AMQPURL != "" {
		pub, err := queue.NewAMQPPublisher(cfg.AMQPURL, queue.IngestEventsTopic)
		if err != nil {
			log.Println("⚠️ Failed to connect to RabbitMQ, ingest events stay local:", err)
		} else {
			defer pub.Close()
			queue.StartAMQPForwarder(events, pub)
			log.Println("✅ Forwarding ingest events to RabbitMQ")
		}
	}

	messageService := &service.MessageService{
		Repo:     repo,
		Verifier: verifier,
	}

	webhookController := &controller.WebhookController{
		MessageService: messageService,
		Events:         events,
	}
	messageController := &controller.MessageController{
		MessageService: messageService,
	}
	healthHandler := &handler.HealthHandler{
		Verifier: verifier,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Post("/webhook", webhookController.Receive)
	r.Get("/messages", messageController.ListMessages)
	r.Get("/stats", messageController.GetStats)

	log.Println("🚀 Server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
