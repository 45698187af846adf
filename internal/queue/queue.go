package queue

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// IngestEventsTopic names both the in-process topic and the durable RabbitMQ
// queue that ingest outcome records flow through.
const IngestEventsTopic = "webhook_events"

// IngestEvent is the request-outcome record emitted after a webhook delivery
// reaches the store. It is telemetry only; the HTTP response never reveals
// whether a delivery was a duplicate.
type IngestEvent struct {
	EventID   string `json:"event_id"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	MessageID string `json:"message_id"`
	Dup       bool   `json:"dup"`
	Result    string `json:"result"`
}

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-memory pub/sub queue with retry
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartIngestEventLogger attaches the default subscriber that writes every
// ingest outcome to the process log, so the audit trail exists even when no
// broker is configured.
func StartIngestEventLogger(q Queue) {
	err := q.Subscribe(IngestEventsTopic, func(payload any) error {
		ev, ok := payload.(IngestEvent)
		if !ok {
			log.Println("⚠️ Invalid payload type, expected IngestEvent")
			return nil
		}
		log.Printf("📩 %s %s -> %d message_id=%s dup=%t result=%s latency=%dms event_id=%s",
			ev.Method, ev.Path, ev.Status, ev.MessageID, ev.Dup, ev.Result, ev.LatencyMS, ev.EventID)
		return nil
	})
	if err != nil {
		log.Println("⚠️ Failed to start ingest event logger:", err)
	}
}
