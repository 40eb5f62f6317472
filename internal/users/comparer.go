package users

import (
	"crypto/subtle"

	kbcrypto "github.com/Young4Rare/kbase/internal/crypto"
)

// Comparer isolates credential preparation and comparison so the storage
// scheme can be swapped without changing authentication semantics.
type Comparer interface {
	// Hash prepares a password for storage in the opaque User.Password field.
	Hash(password string) (string, error)
	// Match reports whether password matches the stored opaque value.
	Match(password, stored string) bool
}

// PlainComparer stores passwords verbatim. It is the default so records
// written before hashing was available keep working.
type PlainComparer struct{}

func (PlainComparer) Hash(password string) (string, error) { return password, nil }

func (PlainComparer) Match(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

// Argon2Comparer stores Argon2id-encoded hashes instead of cleartext.
type Argon2Comparer struct{}

func (Argon2Comparer) Hash(password string) (string, error) {
	return kbcrypto.EncodePassword(password)
}

func (Argon2Comparer) Match(password, stored string) bool {
	return kbcrypto.VerifyEncoded(password, stored)
}
