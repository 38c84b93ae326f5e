package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
)

// EncodeHex renders b as lowercase hexadecimal, two characters per byte.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// ConstantTimeEqual compares two strings without leaking where they differ.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
