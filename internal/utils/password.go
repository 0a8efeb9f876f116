package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// SaltFromHash extracts the algorithm/cost/salt prefix of a bcrypt hash.
// The users table keeps a separate salt column for compatibility with the
// original schema even though bcrypt verification only needs the hash.
func SaltFromHash(hash string) string {
	// $2a$10$ + 22 salt characters = 29 bytes
	if len(hash) < 29 {
		return ""
	}
	return hash[:29]
}
