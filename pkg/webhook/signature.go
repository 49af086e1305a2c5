package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Sign computes the Tebex webhook signature of body:
//
//	hex(HMAC-SHA256(secret, hex(SHA256(body))))
//
// The HMAC input is the lowercase hex digest string, not the body itself.
func Sign(secret, body []byte) string {
	sum := sha256.Sum256(body)
	bodyHash := hex.EncodeToString(sum[:])

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(bodyHash))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the valid signature of body under
// secret. The comparison runs in constant time.
func Verify(secret, body []byte, signature string) bool {
	expected := Sign(secret, body)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

func verifySignature(secret []byte, req Request) error {
	if !Verify(secret, req.Body, req.Signature) {
		return ErrSignatureRejected
	}
	return nil
}
