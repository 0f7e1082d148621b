package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks callback signatures computed by the provider over
// "providerOrderRef|providerPaymentRef" with the shared key secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify reports whether signature is a valid hex HMAC-SHA256 of the callback
// payload. Comparison is constant-time.
func (v *Verifier) Verify(providerOrderRef, providerPaymentRef, signature string) bool {
	expected := v.Sign(providerOrderRef, providerPaymentRef)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the callback signature. The provider does this on its side;
// exposing it keeps tests honest about the exact payload format.
func (v *Verifier) Sign(providerOrderRef, providerPaymentRef string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(providerOrderRef + "|" + providerPaymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}
