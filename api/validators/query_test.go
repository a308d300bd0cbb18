package validators

import (
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=15", nil)
	value, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if value != 15 {
		t.Fatalf("expected 15, got %d", value)
	}
}

func TestParseQueryIntDefaultsWhenAbsent(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	value, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if value != 25 {
		t.Fatalf("expected default 25, got %d", value)
	}
}

func TestParseQueryIntRejectsNonNumeric(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=lots", nil)
	_, err := ParseQueryInt(req, "limit", 25, 1, 100)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryIntRejectsOutOfRange(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=500", nil)
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatalf("expected range error")
	}

	req = httptest.NewRequest("GET", "/?limit=0", nil)
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatalf("expected range error for low value")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 0); got != "hello" {
		t.Fatalf("expected trimmed string, got %q", got)
	}
	if got := SanitizeString("  abcdef  ", 3); got != "abc" {
		t.Fatalf("expected truncation, got %q", got)
	}
}
