package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unclebandit/smsinbound-backend/internal/controller"
	"github.com/unclebandit/smsinbound-backend/internal/repository"
	"github.com/unclebandit/smsinbound-backend/internal/service"
	"github.com/unclebandit/smsinbound-backend/internal/signature"
)

const testSecret = "test-secret"

func newWebhookController(repo repository.MessageRepositoryInterface) (*controller.WebhookController, *service.MessageService) {
	svc := &service.MessageService{
		Repo:     repo,
		Verifier: signature.NewVerifier(testSecret),
	}
	return &controller.WebhookController{MessageService: svc}, svc
}

func postWebhook(t *testing.T, ctrl *controller.WebhookController, body []byte, sig string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(body))
	if sig != "" {
		req.Header.Set("X-Signature", sig)
	}
	w := httptest.NewRecorder()
	ctrl.Receive(w, req)
	return w
}

func TestWebhookEndToEnd(t *testing.T) {
	repo := repository.NewMemoryMessageRepository()
	ctrl, svc := newWebhookController(repo)

	body := []byte(`{"message_id":"m1","from":"+1555","to":"+1777","ts":"2024-01-01T00:00:00Z","text":"hello"}`)
	sig := signature.NewVerifier(testSecret).Sign(body)

	w := postWebhook(t, ctrl, body, sig)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res map[string]string
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res["status"] != "ok" {
		t.Errorf("expected status ok, got %q", res["status"])
	}

	// Identical repeat: same response, still one row.
	w = postWebhook(t, ctrl, body, sig)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d", w.Code)
	}

	page, err := svc.ListMessages(100, 0, repository.MessageFilter{From: "+1555"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Data) != 1 {
		t.Fatalf("expected exactly 1 stored row, got total=%d", page.Total)
	}
	if page.Data[0].MessageID != "m1" {
		t.Errorf("wrong message stored: %+v", page.Data[0])
	}

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalMessages != 1 || stats.SendersCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestWebhookRejectsWrongSignature(t *testing.T) {
	repo := repository.NewMemoryMessageRepository()
	ctrl, svc := newWebhookController(repo)

	body := []byte(`{"message_id":"m1","from":"+1555","to":"+1777","ts":"2024-01-01T00:00:00Z"}`)

	w := postWebhook(t, ctrl, body, "deadbeef")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong signature, got %d", w.Code)
	}

	w = postWebhook(t, ctrl, body, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for missing signature, got %d", w.Code)
	}

	page, err := svc.ListMessages(100, 0, repository.MessageFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("nothing should be stored, got %d rows", page.Total)
	}
}

func TestWebhookRejectsInvalidPayload(t *testing.T) {
	repo := repository.NewMemoryMessageRepository()
	ctrl, _ := newWebhookController(repo)

	body := []byte(`{"message_id":"m1","from":"not-a-number","to":"+1777","ts":"2024-01-01T00:00:00Z"}`)
	sig := signature.NewVerifier(testSecret).Sign(body)

	w := postWebhook(t, ctrl, body, sig)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := res.Fields["from"]; !ok {
		t.Errorf("expected field-level detail for 'from', got %v", res.Fields)
	}
}
