package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSignature returns the hex-encoded HMAC-SHA256 of payload under secret.
func ComputeSignature(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks an inbound webhook signature against the raw,
// unparsed body. It must run before any JSON parsing, since re-encoding can
// change the byte representation. Returns false on any failure; callers get
// no detail about why verification failed.
func VerifySignature(rawBody []byte, providedSignature, secret string) bool {
	if secret == "" || providedSignature == "" {
		return false
	}
	expected := ComputeSignature(rawBody, secret)
	return hmac.Equal([]byte(expected), []byte(providedSignature))
}
