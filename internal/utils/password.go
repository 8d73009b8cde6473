package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes an admin password with bcrypt at the configured
// cost (BCRYPT_COST).
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// bcrypt's comparison is constant-time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
