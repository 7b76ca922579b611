// Package passwd derives and verifies password digests. Digests are
// PBKDF2-HMAC-SHA256 with a per-credential random salt and a fixed, high
// iteration count, stored as hex strings.
package passwd

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength   = 16
	saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	iterations = 100_000
	keyLength  = 32
)

// GenerateSalt returns a 16-character salt drawn uniformly from
// [A-Za-z0-9] using crypto/rand. Bytes outside the unbiased range are
// rejected and redrawn, so every alphabet character is equally likely.
func GenerateSalt() (string, error) {
	// 248 is the largest multiple of len(saltAlphabet) below 256.
	const maxUnbiased = byte(256 - 256%len(saltAlphabet))

	salt := make([]byte, 0, saltLength)
	buf := make([]byte, saltLength)
	for len(salt) < saltLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= maxUnbiased {
				continue
			}
			salt = append(salt, saltAlphabet[int(b)%len(saltAlphabet)])
			if len(salt) == saltLength {
				break
			}
		}
	}
	return string(salt), nil
}

// DeriveHash computes the hex-encoded PBKDF2-HMAC-SHA256 digest of password
// under salt. It is a pure function: equal inputs always produce equal
// output.
func DeriveHash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
	return hex.EncodeToString(key)
}

// Verify reports whether password matches the stored digest under salt.
// The comparison is constant-time.
func Verify(password, salt, digest string) bool {
	candidate := DeriveHash(password, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}
