// Package auth implements the authentication core: password hashing,
// token issuing/verification, and the registration/login flows.
//
// Nothing in this package knows about HTTP. The handlers translate
// requests into calls here and the errors back into status codes.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor for password hashing. Each +1 doubles
// the hashing time; 10 keeps a login around 50–100ms on current
// hardware — slow enough to hurt brute-forcing, fast enough for users.
const bcryptCost = 10

// HashPassword derives a one-way salted digest from the plaintext.
//
// bcrypt generates a random salt per call and embeds it in the output,
// so hashing the same password twice yields different digests — and
// verification never needs the salt stored separately.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored digest.
//
// bcrypt's comparison is constant-time, so response timing does not
// reveal how close a guess was. A malformed digest is treated the same
// as a mismatch: the caller only ever learns "no".
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
