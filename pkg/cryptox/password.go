package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for new hashes. Verification reads them back from the
// encoded hash.
const (
	memory      = 19 * 1024
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	ErrPasswordMismatch = errors.New("cryptox: password does not match")
	ErrInvalidHash      = errors.New("cryptox: invalid password hash")
)

// HashPassword returns a PHC encoded Argon2id hash of password.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password+currentPepper()), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword checks password against a PHC encoded Argon2id hash. The
// final comparison is constant time.
func VerifyPassword(password, encodedHash string) error {
	// "", "argon2id", "v=19", "m=X,t=Y,p=Z", salt, hash
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" || parts[2] != "v=19" {
		return ErrInvalidHash
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %v", ErrInvalidHash, err)
	}
	if mem == 0 || iters == 0 || par == 0 {
		return fmt.Errorf("%w: zero parameter", ErrInvalidHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return fmt.Errorf("%w: digest", ErrInvalidHash)
	}

	computed := argon2.IDKey(
		[]byte(password+currentPepper()),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115
	)

	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// GeneratePassword returns a random 16 character alphanumeric password.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 16

	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("cryptox: generate password: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}
