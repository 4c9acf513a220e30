// Package auth — password hashing utilities.
//
// WHY PBKDF2 AND A STORED SALT?
// Each account stores a (digest, salt) pair. The digest is PBKDF2-SHA512
// over the plaintext with that account's salt; the salt is 64 bytes of
// fresh randomness per account. Identical passwords therefore produce
// different digests, and a leaked table can't be attacked with a single
// rainbow table.
//
// NEVER store plaintext or an unsalted fast hash (MD5, bare SHA-256).
// PBKDF2's iteration count makes each guess cost real CPU time for an
// attacker while staying negligible for a single login.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 64
	keyLength  = 64 // SHA-512 digest size

	// defaultIterations is sized so hashing takes a few milliseconds on
	// current server hardware. Tests inject a lower count via
	// NewPasswordServiceForTest to keep the suite fast.
	defaultIterations = 210_000
)

// PasswordService derives and verifies salted password digests.
//
// It's a struct (not free functions) so the iteration count can be
// injected in tests — the logic under test doesn't change, only the cost.
type PasswordService struct {
	iterations int
}

// NewPasswordService creates a PasswordService with the production
// iteration count.
func NewPasswordService() *PasswordService {
	return &PasswordService{iterations: defaultIterations}
}

// NewPasswordServiceForTest creates a PasswordService with a custom (low)
// iteration count. Do NOT use in production.
func NewPasswordServiceForTest(iterations int) *PasswordService {
	return &PasswordService{iterations: iterations}
}

// Hash derives a digest for the plaintext with a freshly generated salt.
// Both are returned for storage alongside the account; the salt is bound
// 1:1 to this digest and never reused for another account.
func (p *PasswordService) Hash(plaintext string) (digest, salt []byte, err error) {
	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("auth: generating salt: %w", err)
	}

	digest = pbkdf2.Key([]byte(plaintext), salt, p.iterations, keyLength, sha512.New)
	return digest, salt, nil
}

// Verify reports whether plaintext matches the stored digest when hashed
// with the stored salt.
//
// TIMING SAFETY:
// The comparison uses hmac.Equal, which is constant time over the full
// digest length. A byte-by-byte loop with an early return would leak how
// many leading bytes matched through response timing — that's why this is
// a correctness requirement, not a style choice.
func (p *PasswordService) Verify(plaintext string, digest, salt []byte) bool {
	computed := pbkdf2.Key([]byte(plaintext), salt, p.iterations, keyLength, sha512.New)
	return hmac.Equal(computed, digest)
}
