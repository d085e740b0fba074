package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature_RoundTrip(t *testing.T) {
	bodies := [][]byte{
		[]byte(`{"event":{"type":"INITIAL_PURCHASE"}}`),
		[]byte(""),
		[]byte("not json at all"),
		{0x00, 0xff, 0x10, 0x7f},
	}

	for _, body := range bodies {
		sig := ComputeSignature(body, "shared-secret")
		assert.True(t, VerifySignature(body, sig, "shared-secret"),
			"signature computed over the body must verify")
	}
}

func TestVerifySignature_SingleByteMutationFails(t *testing.T) {
	body := []byte(`{"event":{"type":"RENEWAL","app_user_id":"user-1"}}`)
	secret := "shared-secret"
	sig := ComputeSignature(body, secret)

	// Flip each byte of the body in turn
	for i := range body {
		mutated := make([]byte, len(body))
		copy(mutated, body)
		mutated[i] ^= 0x01
		assert.False(t, VerifySignature(mutated, sig, secret),
			"mutated body at index %d must not verify", i)
	}

	// Flip each character of the hex signature in turn
	for i := range sig {
		mutated := []byte(sig)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		if string(mutated) == sig {
			continue
		}
		assert.False(t, VerifySignature(body, string(mutated), secret),
			"mutated signature at index %d must not verify", i)
	}
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	body := []byte(`{"event":{}}`)
	sig := ComputeSignature(body, "secret-a")
	assert.False(t, VerifySignature(body, sig, "secret-b"))
}

func TestVerifySignature_EmptyInputsRejected(t *testing.T) {
	body := []byte("payload")
	assert.False(t, VerifySignature(body, "", "secret"))
	assert.False(t, VerifySignature(body, ComputeSignature(body, ""), ""))
}
