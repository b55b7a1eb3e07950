package embedding

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeContentHash returns a deterministic digest over the canonical
// title+body concatenation. Same content always yields the same hash
// regardless of call order, so it doubles as the cache validity key.
func ComputeContentHash(title, body string) string {
	sum := sha256.Sum256([]byte(title + "\n" + body))
	return hex.EncodeToString(sum[:])
}
