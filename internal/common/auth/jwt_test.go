package auth

import (
	"testing"
	"time"

	"github.com/GarageBook/GarageBook/internal/common/config"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	cfg := config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "garagebook",
		Audience:  "garagebook",
	}

	token, exp, err := GenerateAccessToken(cfg, "u-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if exp.Before(time.Now()) {
		t.Fatalf("expected exp in future")
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "u-1" {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
}

func TestParseAccessTokenRejectsBadInput(t *testing.T) {
	cfg := config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "garagebook",
		Audience:  "garagebook",
	}

	if _, err := ParseAccessToken(cfg, ""); err == nil {
		t.Fatalf("expected empty token rejected")
	}
	if _, err := ParseAccessToken(cfg, "not-a-jwt"); err == nil {
		t.Fatalf("expected malformed token rejected")
	}

	// 换密钥签出的 token 应被拒绝
	other := config.AuthConfig{JWTSecret: "other-secret", Issuer: "garagebook", Audience: "garagebook"}
	token, _, err := GenerateAccessToken(other, "u-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("expected wrong-secret token rejected")
	}

	// 错误 issuer
	badIss := config.AuthConfig{JWTSecret: "test-secret", Issuer: "someone-else", Audience: "garagebook"}
	token, _, err = GenerateAccessToken(badIss, "u-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("expected wrong-issuer token rejected")
	}
}
