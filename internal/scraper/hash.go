package scraper

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint computes the content hash of a fetched page: the SHA-256 hex
// digest of the entire unparsed markup. Any byte-level change, including
// whitespace or unrelated markup, yields a different fingerprint; this is a
// deliberate simplification that also catches changes outside the parsed
// dish listings, such as temporary notices.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
