// Package id generates and checks the identifiers used for TypeRank records.
package id

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Record prefixes.
const (
	PrefixAttempt  = "att"
	PrefixGameMode = "gm"
	PrefixUser     = "user"
	PrefixText     = "text"
	PrefixToken    = "token"
)

const (
	nanoidLength  = 21
	nanoidCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	sessionPrefix = "session_"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "att-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Derive returns a stable ID for key, in the same format Generate produces.
// Seeded records use it so that loading a corpus twice creates nothing new.
func Derive(prefix, key string) string {
	sum := sha256.Sum256([]byte(key))
	b := make([]byte, nanoidLength)
	for i := range b {
		b[i] = nanoidCharset[sum[i]&63]
	}
	return prefix + "-" + string(b)
}

// Valid reports whether s is a well-formed ID carrying prefix.
func Valid(prefix, s string) bool {
	rest, ok := strings.CutPrefix(s, prefix+"-")
	if !ok || len(rest) != nanoidLength {
		return false
	}
	for _, r := range rest {
		if !strings.ContainsRune(nanoidCharset, r) {
			return false
		}
	}
	return true
}

// NewSessionID returns a typing session identifier ("session_" + UUIDv4).
// Session IDs are handed to clients and never stored.
func NewSessionID() string {
	return sessionPrefix + uuid.NewString()
}
