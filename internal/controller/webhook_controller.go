// internal/controller/webhook_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/smsinbound-backend/internal/errors"
	"github.com/unclebandit/smsinbound-backend/internal/queue"
	"github.com/unclebandit/smsinbound-backend/internal/service"
)

type WebhookController struct {
	MessageService *service.MessageService
	Events         queue.Queue
}

// Receive handles POST /webhook. The raw body is read once and handed to the
// service untouched; the X-Signature header must sign those exact bytes.
// Created and duplicate deliveries both return {"status":"ok"} — the
// distinction is only visible in telemetry.
func (c *WebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	result, err := c.MessageService.Ingest(body, r.Header.Get("X-Signature"))
	if err != nil {
		var verr *appErrors.ValidationError
		switch {
		case errors.Is(err, appErrors.ErrInvalidSignature):
			writeError(w, http.StatusUnauthorized, "invalid signature")
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  "validation failed",
				"fields": verr.Fields,
			})
		default:
			log.Println("⚠️ failed to store message:", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	c.publishEvent(r, http.StatusOK, start, result)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *WebhookController) publishEvent(r *http.Request, status int, start time.Time, result *service.IngestResult) {
	if c.Events == nil {
		return
	}
	ev := queue.IngestEvent{
		EventID:   uuid.NewString(),
		Method:    r.Method,
		Path:      r.URL.Path,
		Status:    status,
		LatencyMS: time.Since(start).Milliseconds(),
		MessageID: result.MessageID,
		Dup:       result.Duplicate,
		Result:    string(result.Result),
	}
	if err := c.Events.Publish(queue.IngestEventsTopic, ev); err != nil {
		log.Println("⚠️ failed to publish ingest event:", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
