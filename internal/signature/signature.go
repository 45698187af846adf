package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks webhook signatures against a shared secret. The secret is
// injected at construction time; nothing here reads ambient process state.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Configured reports whether a non-empty secret is present. When false the
// service reports not-ready and every verification fails.
func (v *Verifier) Configured() bool {
	return v.secret != ""
}

// Verify computes the hex HMAC-SHA256 of the raw body bytes under the shared
// secret and compares it to sig in constant time. The signature covers the
// exact bytes on the wire, so callers must verify before parsing.
func (v *Verifier) Verify(body []byte, sig string) bool {
	if v.secret == "" || sig == "" {
		return false
	}
	return hmac.Equal([]byte(v.Sign(body)), []byte(sig))
}

// Sign returns the hex signature for body. Used by the seeder and tests to
// act as the upstream sender.
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
