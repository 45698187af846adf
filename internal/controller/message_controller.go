// internal/controller/message_controller.go
package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/unclebandit/smsinbound-backend/internal/repository"
	"github.com/unclebandit/smsinbound-backend/internal/service"
)

type MessageController struct {
	MessageService *service.MessageService
}

// ListMessages handles GET /messages with limit/offset/from/since/q.
func (c *MessageController) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	filter := repository.MessageFilter{
		From: r.URL.Query().Get("from"),
		Q:    r.URL.Query().Get("q"),
	}
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since timestamp")
			return
		}
		filter.Since = &t
	}

	page, err := c.MessageService.ListMessages(limit, offset, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// GetStats handles GET /stats.
func (c *MessageController) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.MessageService.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
