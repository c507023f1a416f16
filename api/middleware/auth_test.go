package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	pkgAuth "github.com/pasarseni/pasarseni-backend/pkg/auth"
	"github.com/pasarseni/pasarseni-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "pasarseni"}
}

func signTestToken(t *testing.T, cfg config.JWTConfig, userID string) string {
	t.Helper()

	now := time.Now()
	claims := pkgAuth.AccessTokenClaims{
		UserID: userID,
		Email:  "seniman@example.com",
		Name:   "Dewi Lestari",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func captureOwner(owner *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*owner = CartOwnerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	handler := Auth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not run")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthSeedsIdentity(t *testing.T) {
	cfg := testJWTConfig()
	var gotUser string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, cfg, "user-7"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if gotUser != "user-7" {
		t.Fatalf("expected user-7 in context, got %q", gotUser)
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	var owner string
	handler := OptionalAuth(testJWTConfig(), nil)(CartOwner(nil)(captureOwner(&owner)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartSessionHeader, "guest-abc")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if owner != "guest-abc" {
		t.Fatalf("expected guest session as owner, got %q", owner)
	}
}

func TestOptionalAuthRejectsBadToken(t *testing.T) {
	handler := OptionalAuth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCartOwnerPrefersAuthenticatedUser(t *testing.T) {
	cfg := testJWTConfig()
	var owner string
	handler := OptionalAuth(cfg, nil)(CartOwner(nil)(captureOwner(&owner)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, cfg, "user-7"))
	req.Header.Set(CartSessionHeader, "guest-abc")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if owner != "user-7" {
		t.Fatalf("authenticated user id should win, got %q", owner)
	}
}

func TestCartOwnerRequiresSomeOwner(t *testing.T) {
	var owner string
	handler := CartOwner(nil)(captureOwner(&owner))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without any owner, got %d", w.Code)
	}
}
