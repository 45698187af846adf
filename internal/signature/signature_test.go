package signature_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/unclebandit/smsinbound-backend/internal/signature"
)

func TestVerifyAcceptsCorrectSignature(t *testing.T) {
	secret := "test-secret"
	body := []byte(`{"message_id":"m1","from":"+1555","to":"+1777","ts":"2024-01-01T00:00:00Z","text":"hello"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	v := signature.NewVerifier(secret)
	if !v.Verify(body, sig) {
		t.Fatal("expected valid signature to be accepted")
	}
	if v.Sign(body) != sig {
		t.Errorf("Sign produced %q, want %q", v.Sign(body), sig)
	}
}

func TestVerifyRejectsMutatedBody(t *testing.T) {
	v := signature.NewVerifier("test-secret")
	body := []byte(`{"message_id":"m1","text":"hello"}`)
	sig := v.Sign(body)

	// Flipping any single byte must invalidate the signature.
	for i := range body {
		mutated := make([]byte, len(body))
		copy(mutated, body)
		mutated[i] ^= 0x01
		if v.Verify(mutated, sig) {
			t.Fatalf("mutation at byte %d was still accepted", i)
		}
	}
}

func TestVerifyRejectsWrongSignature(t *testing.T) {
	v := signature.NewVerifier("test-secret")
	body := []byte(`{}`)

	if v.Verify(body, "deadbeef") {
		t.Error("expected mismatched signature to be rejected")
	}
	if v.Verify(body, "") {
		t.Error("expected missing signature to be rejected")
	}
}

func TestVerifyRejectsEverythingWithoutSecret(t *testing.T) {
	v := signature.NewVerifier("")
	if v.Configured() {
		t.Error("expected empty secret to report not configured")
	}
	body := []byte(`{}`)
	if v.Verify(body, v.Sign(body)) {
		t.Error("expected verification to fail when no secret is configured")
	}
}

func TestVerifyDependsOnSecret(t *testing.T) {
	body := []byte(`{"message_id":"m1"}`)
	sig := signature.NewVerifier("secret-a").Sign(body)
	if signature.NewVerifier("secret-b").Verify(body, sig) {
		t.Error("signature made with a different secret was accepted")
	}
}
