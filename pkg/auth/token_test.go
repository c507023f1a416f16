package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pasarseni/pasarseni-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "pasarseni"}
}

func signToken(t *testing.T, cfg config.JWTConfig, claims AccessTokenClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func baseClaims() AccessTokenClaims {
	now := time.Now()
	return AccessTokenClaims{
		UserID: "user-7",
		Email:  "seniman@example.com",
		Name:   "Dewi Lestari",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pasarseni",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestParseAccessTokenSuccess(t *testing.T) {
	cfg := testJWTConfig()
	signed := signToken(t, cfg, baseClaims())

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "user-7" {
		t.Fatalf("unexpected user id %q", claims.UserID)
	}

	ident := claims.Identity()
	if ident.Email != "seniman@example.com" || ident.Name != "Dewi Lestari" {
		t.Fatalf("unexpected identity %+v", ident)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	claims := baseClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	signed := signToken(t, cfg, claims)

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	claims := baseClaims()
	claims.Issuer = "someone-else"
	signed := signToken(t, cfg, claims)

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestParseAccessTokenRejectsMissingUserID(t *testing.T) {
	cfg := testJWTConfig()
	claims := baseClaims()
	claims.UserID = ""
	signed := signToken(t, cfg, claims)

	_, err := ParseAccessToken(cfg, signed)
	if err == nil || !strings.Contains(err.Error(), "user id") {
		t.Fatalf("expected missing user id error, got %v", err)
	}
}

func TestParseAccessTokenRequiresSecret(t *testing.T) {
	if _, err := ParseAccessToken(config.JWTConfig{}, "whatever"); err == nil {
		t.Fatal("expected error without secret")
	}
}
