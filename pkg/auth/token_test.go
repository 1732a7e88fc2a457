package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/denimhub/denimhub-backend/pkg/config"
	"github.com/denimhub/denimhub-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "denimhub",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()

	payload := AccessTokenPayload{
		UserID: 7,
		Name:   "Rina",
		Role:   enums.UserRoleAdmin,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != 7 {
		t.Fatalf("expected user_id 7, got %d", claims.UserID)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Name != "Rina" {
		t.Fatalf("unexpected name %q", claims.Name)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "denimhub",
		ExpirationMinutes: 10,
	}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Role: enums.UserRoleStaff})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenWrongIssuer(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "denimhub", ExpirationMinutes: 10}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Role: enums.UserRoleStaff})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "denimhub",
		ExpirationMinutes: 15,
	}
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{UserID: 3, Role: enums.UserRoleStaff})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMintAccessTokenInvalidRole(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "denimhub",
		ExpirationMinutes: 5,
	}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: 1, Role: ""}); err == nil {
		t.Fatal("expected invalid role error")
	}
}
