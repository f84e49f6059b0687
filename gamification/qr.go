package gamification

import (
	"crypto/subtle"
	"strings"
)

// NormalizeQRPayload extracts the code from a raw scanned payload. Printed QR
// codes may embed the event id as "<event_id>:<code>"; only the trailing
// segment is the code itself.
func NormalizeQRPayload(raw string) string {
	if i := strings.LastIndex(raw, ":"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// VerifyQRCode reports whether the scanned payload matches the event's issued
// secret. Comparison is case-sensitive and constant-time.
func VerifyQRCode(secret, scanned string) bool {
	code := NormalizeQRPayload(scanned)
	return subtle.ConstantTimeCompare([]byte(secret), []byte(code)) == 1
}
