package auth

import (
	"testing"
	"time"

	"github.com/gadgetshub/storefront-backend/pkg/config"
	"github.com/google/uuid"
)

func TestMintAndParseCustomerToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret: "secret",
		Issuer: "storefront",
	}
	now := time.Now().UTC()
	userID := uuid.New()

	payload := CustomerTokenPayload{
		UserID: userID,
		Email:  "buyer@example.com",
		Name:   "Buyer One",
	}

	token, err := MintCustomerToken(cfg, now, 30*time.Minute, payload)
	if err != nil {
		t.Fatalf("mint customer token: %v", err)
	}

	claims, err := ParseCustomerToken(cfg, token)
	if err != nil {
		t.Fatalf("parse customer token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "buyer@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(30 * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseCustomerTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "storefront"}
	now := time.Now()

	token, err := MintCustomerToken(cfg, now, 10*time.Minute, CustomerTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint customer token: %v", err)
	}

	other := config.JWTConfig{Secret: "other-secret", Issuer: "storefront"}
	if _, err := ParseCustomerToken(other, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestParseCustomerTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "storefront"}
	past := time.Now().Add(-2 * time.Hour)

	token, err := MintCustomerToken(cfg, past, time.Minute, CustomerTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint customer token: %v", err)
	}

	if _, err := ParseCustomerToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestMintCustomerTokenRequiresUserID(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "storefront"}
	if _, err := MintCustomerToken(cfg, time.Now(), time.Minute, CustomerTokenPayload{}); err == nil {
		t.Fatal("expected missing user id to fail")
	}
}
