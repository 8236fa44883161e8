package idgen

import (
	"crypto/rand"
	"fmt"
	"io"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Reader is the entropy source. Tests may swap it.
var Reader io.Reader = rand.Reader

// GenerateSecureID returns prefix_ followed by length uniformly random
// lowercase alphanumerics.
func GenerateSecureID(prefix string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("idgen: invalid length %d", length)
	}

	// Bytes at or above limit are rejected so every character is equally likely.
	const limit = 256 - 256%len(alphabet)

	out := make([]byte, 0, length)
	chunk := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(Reader, chunk); err != nil {
			return "", fmt.Errorf("idgen: read random bytes: %w", err)
		}
		for _, b := range chunk {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}

	if prefix == "" {
		return string(out), nil
	}
	return prefix + "_" + string(out), nil
}

// MustGenerate is GenerateSecureID for callers that treat a broken entropy
// source as fatal.
func MustGenerate(prefix string, length int) string {
	id, err := GenerateSecureID(prefix, length)
	if err != nil {
		panic(err)
	}
	return id
}
