package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gadgetshub/storefront-backend/pkg/auth"
	"github.com/gadgetshub/storefront-backend/pkg/config"
)

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret-test-secret-test-1234", Issuer: "identity.test"}
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	handler := Auth(jwtTestConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	handler := Auth(jwtTestConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthSeedsCustomerContext(t *testing.T) {
	cfg := jwtTestConfig()
	customerID := uuid.New()
	token, err := auth.MintCustomerToken(cfg, time.Now(), time.Hour, auth.CustomerTokenPayload{
		UserID: customerID,
		Email:  "jane@example.com",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var gotID, gotEmail string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = CustomerIDFromContext(r.Context())
		gotEmail = CustomerEmailFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotID != customerID.String() {
		t.Fatalf("expected customer id %s, got %q", customerID, gotID)
	}
	if gotEmail != "jane@example.com" {
		t.Fatalf("expected email in context, got %q", gotEmail)
	}
}
