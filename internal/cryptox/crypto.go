// Package cryptox holds the hashing used to refer to access tokens without
// storing them.
package cryptox

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// FingerprintSize is the digest length in bytes.
const FingerprintSize = 32

// Fingerprint returns a hex-encoded BLAKE2b-256 digest of token. When key is
// non-empty the digest is keyed (MAC mode), so fingerprints from different
// deployments do not collide. Keys longer than 64 bytes are rejected.
func Fingerprint(token string, key []byte) (string, error) {
	h, err := blake2b.New256(key)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil)), nil
}
