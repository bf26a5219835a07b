// Package fingerprint derives content-addressed digests for captured items.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Compute returns the lowercase hex SHA-256 digest of the source URL and
// content joined by a "|" separator, so identical content captured from
// different pages yields different digests. The result is stable and
// filename-safe; it is used for duplicate detection, never as a key.
func Compute(content, url string) string {
	sum := sha256.Sum256([]byte(url + "|" + content))
	return hex.EncodeToString(sum[:])
}
