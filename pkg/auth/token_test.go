package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lucasferri/distribuidora-backend/pkg/config"
)

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "distribuidora",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	adminID := uuid.New()
	token, err := MintAccessToken(jwtConfig(), time.Now(), AccessTokenPayload{
		AdminID: adminID,
		Email:   "operador@distribuidora.com.br",
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	claims, err := ParseAccessToken(jwtConfig(), token)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.AdminID != adminID {
		t.Fatalf("expected admin id %s, got %s", adminID, claims.AdminID)
	}
	if claims.Email != "operador@distribuidora.com.br" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.ID == "" {
		t.Fatal("expected non-empty jti")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	token, err := MintAccessToken(jwtConfig(), time.Now(), AccessTokenPayload{
		AdminID: uuid.New(),
		Email:   "a@b.c",
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	other := jwtConfig()
	other.Secret = "another-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestMintAccessTokenRequiresAdminID(t *testing.T) {
	if _, err := MintAccessToken(jwtConfig(), time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected error for missing admin id")
	}
}
