package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// fingerprintLen is the number of hex characters shown to users.
const fingerprintLen = 12

// Digest returns the hex BLAKE2b-256 hash of body.
func Digest(body []byte) string {
	sum := blake2b.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns a short display form of a hex digest.
func Fingerprint(digest string) string {
	if len(digest) <= fingerprintLen {
		return digest
	}
	return digest[:fingerprintLen]
}
