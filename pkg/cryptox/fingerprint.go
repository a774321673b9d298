package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint returns a deterministic SHA-256 digest of the concatenated
// inputs, base64url-encoded without padding (43 chars). Used to derive stable
// device identifiers from request metadata: the same inputs always map to the
// same fingerprint and the original values cannot be recovered from it.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
