package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const pepperLength = 32

var (
	pepperMu sync.RWMutex
	pepper   string
)

// LoadPepper reads the password pepper from path. When the file does not
// exist a new pepper is generated and written with 0600 permissions so that
// restarts keep verifying existing hashes.
func LoadPepper(path string) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("cryptox: create pepper dir: %w", err)
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		buf := make([]byte, pepperLength)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("cryptox: generate pepper: %w", err)
		}
		raw = []byte(base64.RawURLEncoding.EncodeToString(buf))
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			return fmt.Errorf("cryptox: write pepper: %w", err)
		}
	case err != nil:
		return fmt.Errorf("cryptox: read pepper: %w", err)
	}

	SetPepper(string(raw))
	return nil
}

// SetPepper replaces the pepper used by HashPassword and VerifyPassword.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

func currentPepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}
