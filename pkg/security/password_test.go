package security

import (
	"strings"
	"testing"

	"github.com/velomarket/velomarket-backend/pkg/config"
)

func TestHashAndVerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("tubeless-ready", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected argon2id format, got %q", hash)
	}

	ok, err := VerifyPassword("tubeless-ready", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}

	ok, err = VerifyPassword("clincher", hash)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := HashPassword("same-password", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("same-password", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct hashes for the same password")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword("", config.PasswordConfig{}); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("anything", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
