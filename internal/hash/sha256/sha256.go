// Package sha256 digests archived page snapshots.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher produces lowercase hex SHA-256 digests. Archive log lines
// carry the digest so a stored snapshot can be verified later.
type Hasher struct{}

// New returns a Hasher.
func New() Hasher { return Hasher{} }

// Hash digests data. The error return keeps the signature compatible
// with streaming hashers that can fail mid-write.
func (Hasher) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
