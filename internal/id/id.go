package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// UUID generates a random UUID v4 string.
func UUID() string {
	return uuid.NewString()
}

// Short generates a short random hex ID (16 characters).
func Short() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
