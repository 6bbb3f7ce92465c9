// Package auth issues and verifies identity tokens and hashes passwords.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PASETO v4 local tokens use a 256-bit symmetric key.
const keyLength = 32

// LoadOrGenerateKey reads the hex-encoded token key at path, creating a new
// random key (and its directory) when the file does not exist.
func LoadOrGenerateKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path) //#nosec G304 -- path comes from configuration
	if err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("auth key %s is not valid hex: %w", path, err)
		}
		if len(key) != keyLength {
			return nil, fmt.Errorf("auth key %s must be %d bytes, got %d", path, keyLength, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read auth key: %w", err)
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate auth key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create auth key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("save auth key: %w", err)
	}
	return key, nil
}
