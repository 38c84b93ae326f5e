package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// FingerprintSize is the number of random bytes in a fingerprint. Hex encoded
// that is 100 characters.
const FingerprintSize = 50

// ErrBlankFingerprint is returned by Hash for an empty or whitespace-only
// fingerprint. It signals a caller bug rather than bad client input.
var ErrBlankFingerprint = errors.New("cryptox: fingerprint must not be blank")

// Fingerprinter generates the random value that binds a token to one browser
// and hashes it for embedding into the token. When Enabled is false every
// method is a no-op returning an empty string.
type Fingerprinter struct {
	Enabled bool
}

// Generate returns a fresh hex-encoded fingerprint.
func (f Fingerprinter) Generate() (string, error) {
	if !f.Enabled {
		return "", nil
	}

	buf := make([]byte, FingerprintSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate fingerprint: %w", err)
	}
	return EncodeHex(buf), nil
}

// Hash returns the hex-encoded SHA3-256 digest of fingerprint (64 characters).
func (f Fingerprinter) Hash(fingerprint string) (string, error) {
	if !f.Enabled {
		return "", nil
	}
	if strings.TrimSpace(fingerprint) == "" {
		return "", ErrBlankFingerprint
	}

	sum := sha3.Sum256([]byte(fingerprint))
	return EncodeHex(sum[:]), nil
}
