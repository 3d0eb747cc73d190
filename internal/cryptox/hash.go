// Package cryptox provides the salted one-way hashing used by the offline
// credential vault. The scheme is an explicit strategy so it can be swapped
// without touching call sites.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Hasher turns a secret into a self-describing encoded hash and verifies
// candidate secrets against it. Implementations must never be reversible
// and must compare in constant time.
type Hasher interface {
	Hash(secret []byte) (string, error)
	Verify(encoded string, secret []byte) bool
}

// Argon2Hasher hashes with argon2id and a random per-secret salt. The
// encoded form carries the parameters, so they can be raised later without
// invalidating existing entries.
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	saltLen uint32
	keyLen  uint32
}

// NewArgon2Hasher returns a hasher with the project defaults
// (t=1, m=64MiB, p=4, 16-byte salt, 32-byte key).
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{time: 1, memory: 64 * 1024, threads: 4, saltLen: 16, keyLen: 32}
}

func (h *Argon2Hasher) Hash(secret []byte) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey(secret, salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify recomputes the hash of secret with the parameters and salt taken
// from encoded and compares in constant time. Any malformed input verifies
// as false rather than erroring, so callers cannot leak which part failed.
func (h *Argon2Hasher) Verify(encoded string, secret []byte) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	got := argon2.IDKey(secret, salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1
}
