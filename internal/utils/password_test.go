package utils

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fueldist/fuel-token-backend/internal/model"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Fatal("wrong password accepted")
	}
}

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken("test-secret", 42, model.RolePumpAttendant, 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["role"] != "PUMP_ATTENDANT" {
		t.Errorf("role claim = %v, want PUMP_ATTENDANT", claims["role"])
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("sub claim = %v, want 42", claims["sub"])
	}
}

func TestNewFuelTokenString(t *testing.T) {
	a := NewFuelTokenString()
	b := NewFuelTokenString()
	if a == b {
		t.Fatal("two generated tokens collided")
	}
	if !strings.HasPrefix(a, "FT-") {
		t.Errorf("token %q missing FT- prefix", a)
	}
}
