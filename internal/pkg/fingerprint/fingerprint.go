// Package fingerprint derives fixed-length cache keys from arbitrary bytes.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Size is the length of every fingerprint in characters.
const Size = sha256.Size * 2

// separator keeps ("ab", "c") and ("a", "bc") apart in Parts.
const separator = 0x00

// Sum returns the lowercase hex SHA-256 digest of b.
func Sum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// String fingerprints a string.
func String(s string) string {
	return Sum([]byte(s))
}

// Parts fingerprints several fields as one key.
func Parts(parts ...string) string {
	h := sha256.New()
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte{separator})
		}
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}
