package auth

import (
	"bytes"
	"strings"
	"testing"
)

// newTestPasswordService returns a PasswordService with a low iteration
// count so the suite runs in milliseconds. The derivation logic under test
// is identical at any count.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(1000)
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_ReturnsDigestAndSalt(t *testing.T) {
	ps := newTestPasswordService()

	digest, salt, err := ps.Hash("my-secret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if len(digest) != keyLength {
		t.Errorf("digest length = %d, want %d", len(digest), keyLength)
	}
	if len(salt) != saltLength {
		t.Errorf("salt length = %d, want %d", len(salt), saltLength)
	}
}

func TestHash_SamePasswordProducesDifferentDigests(t *testing.T) {
	ps := newTestPasswordService()

	// A fresh salt per call means two accounts with the same password
	// never share a digest — otherwise one rainbow table cracks both.
	digest1, salt1, _ := ps.Hash("same-password")
	digest2, salt2, _ := ps.Hash("same-password")

	if bytes.Equal(salt1, salt2) {
		t.Error("Hash() reused a salt across calls")
	}
	if bytes.Equal(digest1, digest2) {
		t.Error("Hash() produced identical digests for the same password")
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify_CorrectPassword(t *testing.T) {
	ps := newTestPasswordService()

	digest, salt, err := ps.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !ps.Verify("correct-horse-battery-staple", digest, salt) {
		t.Error("Verify() = false for the correct password")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	digest, salt, _ := ps.Hash("the-real-password")

	cases := []struct {
		name      string
		candidate string
	}{
		{"completely different", "the-wrong-password"},
		{"different length", "the-real-password-longer"},
		{"single differing byte", "the-real-passwore"},
		{"empty", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if ps.Verify(tc.candidate, digest, salt) {
				t.Errorf("Verify(%q) = true, want false", tc.candidate)
			}
		})
	}
}

func TestVerify_WrongSalt(t *testing.T) {
	ps := newTestPasswordService()

	digest, _, _ := ps.Hash("password")
	_, otherSalt, _ := ps.Hash("password")

	// Same password, wrong salt — must not verify. The digest is bound to
	// the exact salt it was derived with.
	if ps.Verify("password", digest, otherSalt) {
		t.Error("Verify() accepted a digest against a different salt")
	}
}

// =========================================================================
// ROUND-TRIP TEST
// =========================================================================

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	cases := []struct {
		name     string
		password string
	}{
		{"simple alphanumeric", "hello123"},
		{"special characters", "p@$$w0rd!#%"},
		{"unicode", "пароль-密码"},
		{"whitespace", "  leading and trailing  "},
		{"long", strings.Repeat("x", 200)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			digest, salt, err := ps.Hash(tc.password)
			if err != nil {
				t.Fatalf("Hash(%q) error = %v", tc.password, err)
			}

			if !ps.Verify(tc.password, digest, salt) {
				t.Errorf("Verify() failed for %q", tc.password)
			}
		})
	}
}
