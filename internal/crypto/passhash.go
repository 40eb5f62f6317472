// Package crypto implements password hashing for directory accounts.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for interactive login on a local machine).
const (
	argonTime    uint32 = 2
	argonMemory  uint32 = 32 * 1024 // 32 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32

	saltLen = 16

	encodedPrefix = "argon2id$"
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns the Argon2id hash of password using the provided salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword verifies password against the expected Argon2id hash and salt.
func VerifyPassword(password, salt, expected []byte) bool {
	got := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}

// EncodePassword hashes password with a fresh salt and packs salt and hash
// into a single opaque string suitable for the User.Password field:
// "argon2id$<salt hex>$<hash hex>".
func EncodePassword(password string) (string, error) {
	salt, err := RandBytes(saltLen)
	if err != nil {
		return "", err
	}
	hash := HashPassword([]byte(password), salt)
	return encodedPrefix + hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// VerifyEncoded checks password against a string produced by EncodePassword.
// Malformed input verifies as false.
func VerifyEncoded(password, encoded string) bool {
	rest, ok := strings.CutPrefix(encoded, encodedPrefix)
	if !ok {
		return false
	}
	saltHex, hashHex, ok := strings.Cut(rest, "$")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}
	return VerifyPassword([]byte(password), salt, expected)
}
