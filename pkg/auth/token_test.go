package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/velomarket/velomarket-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "velomarket",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:   userID,
		Username: "mechanic",
		IsStaff:  true,
		JTI:      "access-1",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.Username != "mechanic" || !claims.IsStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != "access-1" {
		t.Fatalf("expected jti preserved, got %q", claims.ID)
	}
}

func TestMintGeneratesJTIWhenBlank(t *testing.T) {
	cfg := testJWTConfig()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "rider",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()

	other := cfg
	other.Issuer = "someone-else"
	token, err := MintAccessToken(other, time.Now(), AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "rider",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("expected issuer mismatch to fail")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()

	// minted far enough in the past that the token has expired
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "rider",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestParseAllowExpiredAcceptsStaleToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID:   userID,
		Username: "rider",
		JTI:      "stale-access",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("parse allow expired: %v", err)
	}
	if claims.UserID != userID || claims.ID != "stale-access" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseAllowExpiredRejectsBadSignature(t *testing.T) {
	cfg := testJWTConfig()

	forged := cfg
	forged.Secret = "different-secret"
	token, err := MintAccessToken(forged, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "rider",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessTokenAllowExpired(cfg, token); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
}
