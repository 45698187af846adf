package handler

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/smsinbound-backend/internal/signature"
)

// HealthHandler holds the dependencies for the health endpoints.
type HealthHandler struct {
	Verifier *signature.Verifier
}

// Live handles GET /health/live. Always 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, "alive")
}

// Ready handles GET /health/ready. The service is ready only when the
// webhook secret is configured; without it no delivery can ever verify.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.Verifier.Configured() {
		writeStatus(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writeStatus(w, http.StatusOK, "ready")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
