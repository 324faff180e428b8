// Package auth implements the credential and token services: bcrypt password
// hashing and JWT bearer token issuance/verification.
package auth

import "golang.org/x/crypto/bcrypt"

// hashCost is the bcrypt work factor (2^10 rounds).
const hashCost = 10

// HashPassword returns the salted one-way digest of plaintext.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plaintext matches the stored digest.
// Any internal failure counts as a mismatch, never a crash.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
