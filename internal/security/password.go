package security

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// digest collapses the plaintext to a fixed-size base64 string before it
// reaches bcrypt, which truncates (and since x/crypto v0.3 rejects) input
// past 72 bytes. Passwords of any length hash and verify; base64 keeps NUL
// bytes out of the bcrypt input.
func digest(pw string) []byte {
	sum := sha256.Sum256([]byte(pw))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// HashPassword produces a salted digest of pw. Output differs between calls
// for the same input; verification is deterministic.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(digest(pw), bcryptCost)
	return string(b), err
}

// CheckPassword reports whether pw matches the stored digest. The comparison
// is constant-time within bcrypt.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(pw)) == nil
}
