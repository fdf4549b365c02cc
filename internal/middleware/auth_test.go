package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func protectedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func signToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware_MissingTokenIsRejected(t *testing.T) {
	handler := AuthMiddleware("secret")(protectedHandler())

	req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_ValidTokenPasses(t *testing.T) {
	handler := AuthMiddleware("secret")(protectedHandler())

	req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}

func TestAuthMiddleware_WrongSecretIsRejected(t *testing.T) {
	handler := AuthMiddleware("secret")(protectedHandler())

	req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_NoSecretDisablesEndpoint(t *testing.T) {
	handler := AuthMiddleware("")(protectedHandler())

	req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with no configured secret, got %d", rr.Code)
	}
}
