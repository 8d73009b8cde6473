package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAccessToken(secret, 42, "ADMIN", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token")
	}
	if until := time.Until(tok.Exp); until < 14*time.Minute || until > 16*time.Minute {
		t.Fatalf("expiry %v not ~15m out", tok.Exp)
	}

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v (valid=%v)", err, parsed != nil && parsed.Valid)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("sub = %v, want 42", claims["sub"])
	}
	if claims["role"] != "ADMIN" {
		t.Errorf("role = %v, want ADMIN", claims["role"])
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
