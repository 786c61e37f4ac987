package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	defaultIterations = 7000
	derivedKeyLength  = 32
	saltLength        = 128
)

// PasswordHasher derives password hashes with PBKDF2-HMAC-SHA256
type PasswordHasher struct {
	Iterations int
}

// NewPasswordHasher returns a hasher using the default iteration count
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{Iterations: defaultIterations}
}

// Hash returns hex encoded hash and salt plus the iteration count used
func (h *PasswordHasher) Hash(password string) (hash, salt string, iterations int, err error) {
	saltBytes := make([]byte, saltLength)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", "", 0, fmt.Errorf("failed to generate salt: %w", err)
	}
	salt = hex.EncodeToString(saltBytes)
	return derive(password, salt, h.Iterations), salt, h.Iterations, nil
}

// Verify recomputes the hash with the stored salt and iteration count
func (h *PasswordHasher) Verify(password, salt, hash string, iterations int) bool {
	computed := derive(password, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

func derive(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, derivedKeyLength, sha256.New)
	return hex.EncodeToString(key)
}
