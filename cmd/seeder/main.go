//cmd/seeder/main.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/unclebandit/smsinbound-backend/internal/signature"
)

// The seeder acts as the upstream sender: it signs each sample payload with
// the shared secret and posts it to a running server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	secret := os.Getenv("WEBHOOK_SECRET")
	if secret == "" {
		log.Fatal("WEBHOOK_SECRET must be set to sign seed payloads")
	}

	target := os.Getenv("SEED_TARGET")
	if target == "" {
		target = "http://localhost:8080"
	}

	signer := signature.NewVerifier(secret)

	samples := []map[string]interface{}{
		{"message_id": "seed-1", "from": "+254700000001", "to": "+254711000001", "ts": "2024-01-01T08:00:00Z", "text": "Karibu! Your order has shipped."},
		{"message_id": "seed-2", "from": "+254700000001", "to": "+254711000002", "ts": "2024-01-01T09:30:00Z", "text": "Reminder: payment due Friday."},
		{"message_id": "seed-3", "from": "+254700000002", "to": "+254711000001", "ts": "2024-01-02T10:15:00Z", "text": "STOP"},
		{"message_id": "seed-4", "from": "+254700000003", "to": "+254711000003", "ts": "2024-01-03T12:00:00Z"},
	}

	for _, sample := range samples {
		body, err := json.Marshal(sample)
		if err != nil {
			log.Fatalf("failed to encode %s: %v", sample["message_id"], err)
		}

		req, err := http.NewRequest(http.MethodPost, target+"/webhook", bytes.NewReader(body))
		if err != nil {
			log.Fatalf("failed to build request for %s: %v", sample["message_id"], err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Signature", signer.Sign(body))

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Fatalf("failed to post %s: %v", sample["message_id"], err)
		}
		resp.Body.Close()

		fmt.Printf("Seeded: %s (%s)\n", sample["message_id"], resp.Status)
	}

	fmt.Println("Webhook seeding completed successfully!")
}
