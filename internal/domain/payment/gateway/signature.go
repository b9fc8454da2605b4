package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// ComputeSignature returns base64(HMAC-SHA256(secret, timestamp || rawBody)).
// The signature covers the raw request bytes exactly as received; hashing a
// re-serialized parse would break on any canonicalization difference.
func ComputeSignature(secret, timestamp string, rawBody []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(rawBody)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature in constant time.
func VerifySignature(secret, timestamp string, rawBody []byte, signature string) bool {
	expected := ComputeSignature(secret, timestamp, rawBody)
	return hmac.Equal([]byte(expected), []byte(signature))
}
