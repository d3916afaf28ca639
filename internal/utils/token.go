package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomToken returns n random bytes hex-encoded. Used for share hashes and
// chat room identifiers; 16 bytes gives 128 bits of entropy.
func RandomToken(n int) string {
	buf := make([]byte, n)

	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}

	return hex.EncodeToString(buf)
}
