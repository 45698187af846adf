package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unclebandit/smsinbound-backend/internal/handler"
	"github.com/unclebandit/smsinbound-backend/internal/signature"
)

func getStatus(t *testing.T, fn http.HandlerFunc, url string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", url, nil)
	w := httptest.NewRecorder()
	fn(w, req)

	var res map[string]string
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return w.Code, res["status"]
}

func TestLiveAlwaysOK(t *testing.T) {
	h := &handler.HealthHandler{Verifier: signature.NewVerifier("")}
	code, status := getStatus(t, h.Live, "/health/live")
	if code != http.StatusOK || status != "alive" {
		t.Errorf("expected 200 alive, got %d %q", code, status)
	}
}

func TestReadyReflectsSecret(t *testing.T) {
	h := &handler.HealthHandler{Verifier: signature.NewVerifier("")}
	code, status := getStatus(t, h.Ready, "/health/ready")
	if code != http.StatusServiceUnavailable || status != "not ready" {
		t.Errorf("expected 503 not ready, got %d %q", code, status)
	}

	h = &handler.HealthHandler{Verifier: signature.NewVerifier("s3cret")}
	code, status = getStatus(t, h.Ready, "/health/ready")
	if code != http.StatusOK || status != "ready" {
		t.Errorf("expected 200 ready, got %d %q", code, status)
	}
}
