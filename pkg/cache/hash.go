package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the SHA-256 of data as 64 hex characters. It fingerprints
// serialized frames so equal dataset content addresses the same cache
// entry regardless of where the file came from.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a namespaced key "prefix:hash(parts)". Parts are
// JSON-serialized before hashing, so the dataset hash and every option
// axis contribute to the digest and any change addresses a new entry.
// The full 256-bit digest is kept: truncating would trade collision
// safety for nothing.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}
