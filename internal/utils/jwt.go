package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed JWT along with its expiry.  Admin sessions use
// short-lived access tokens only; there is no refresh flow.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken builds and signs an HS256 JWT carrying the standard
// sub, role, exp and iat claims.  ttlMin is the token lifetime in
// minutes.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
