package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// MustNewToken generates a new cryptographically secure token of len random bytes and returns its URL-safe base64
// representation together with its hash as computed by Hash
func MustNewToken(len int) (string, string) {
	bytes := make([]byte, len)
	_, err := rand.Read(bytes)
	if err != nil {
		panic(err)
	}

	raw := base64.RawURLEncoding.EncodeToString(bytes)
	return raw, Hash(raw)
}

// Hash returns the hex encoded SHA256 hash of the given raw token.
// Session storages only ever persist this hash.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
