package helpers

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// RandomHex returns n cryptographically random bytes, hex-encoded.
func RandomHex(n int) string {
	b := make([]byte, n)
	// crypto/rand.Read never fails on supported platforms
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// PBKDF2SHA512Hex derives keyLen bytes from password and salt using PBKDF2
// with HMAC-SHA512 and returns them hex-encoded. The salt string is used
// as-is (its bytes), not decoded.
func PBKDF2SHA512Hex(password, salt string, iterations, keyLen int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLen, sha512.New)
	return hex.EncodeToString(key)
}

// EqualHex reports whether two hex strings are identical.
func EqualHex(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
