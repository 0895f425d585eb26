package cryptox

import (
	"crypto/rand"
	"crypto/sha1" // #nosec G505 - PBKDF2-HMAC-SHA1 per RFC 2898; SHA-1 is not used for collision resistance here
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing parameters. Stored hashes embed no parameter block, so
// changing these invalidates every existing hash.
const (
	saltLength = 16
	keyLength  = 20
	iterations = 10_000
)

var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword derives a key from the password with PBKDF2-HMAC-SHA1 using a
// fresh random salt, and returns base64(salt || derivedKey).
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha1.New)

	blob := make([]byte, 0, saltLength+keyLength)
	blob = append(blob, salt...)
	blob = append(blob, key...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// VerifyPassword compares a plaintext password against an encoded hash
// produced by HashPassword. A malformed or truncated blob is a verification
// failure, never a panic.
func VerifyPassword(password, encodedHash string) error {
	blob, err := base64.StdEncoding.DecodeString(encodedHash)
	if err != nil {
		return fmt.Errorf("cryptox: invalid hash encoding: %w", err)
	}
	if len(blob) != saltLength+keyLength {
		return fmt.Errorf("cryptox: invalid hash length %d, expected %d", len(blob), saltLength+keyLength)
	}

	salt := blob[:saltLength]
	expected := blob[saltLength:]

	computed := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha1.New)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
