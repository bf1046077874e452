package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// FormatKey derives the cache key for a formatting result from the input text
// and the resolved stringify options. The key format is:
// fmt:<gap-in-hex>:hash(input), so distinct indentation settings never
// collide for the same document.
func FormatKey(input []byte, gap string) string {
	return fmt.Sprintf("fmt:%x:%s", gap, Hash(input))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
