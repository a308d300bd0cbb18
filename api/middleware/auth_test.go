package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/velomarket/velomarket-backend/pkg/auth"
	"github.com/velomarket/velomarket-backend/pkg/config"
)

type stubSessionChecker struct {
	live map[string]bool
	err  error
}

func (s *stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.live[accessID], nil
}

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-secret",
		Issuer:            "velomarket",
		ExpirationMinutes: 30,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, isStaff bool, jti string) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "mechanic",
		IsStaff:  isStaff,
		JTI:      jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func recordContext(captured *context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = r.Context()
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthSeedsContext(t *testing.T) {
	cfg := authTestConfig()
	checker := &stubSessionChecker{live: map[string]bool{"access-1": true}}

	var captured context.Context
	handler := Auth(cfg, checker, nil)(recordContext(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, true, "access-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if UsernameFromContext(captured) != "mechanic" {
		t.Fatalf("expected username in context")
	}
	if !IsStaffFromContext(captured) {
		t.Fatalf("expected staff flag in context")
	}
	if AccessIDFromContext(captured) != "access-1" {
		t.Fatalf("expected access id in context")
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(authTestConfig(), nil, nil)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := authTestConfig()
	checker := &stubSessionChecker{live: map[string]bool{}}
	handler := Auth(cfg, checker, nil)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, false, "gone"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsForgedToken(t *testing.T) {
	cfg := authTestConfig()
	forged := cfg
	forged.Secret = "other-secret"
	handler := Auth(cfg, nil, nil)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, forged, false, "access-1"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestOptionalAuthPassesAnonymously(t *testing.T) {
	var captured context.Context
	handler := OptionalAuth(authTestConfig(), nil, nil)(recordContext(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("bad token must fall through, got %d", resp.Code)
	}
	if UserIDFromContext(captured) != "" {
		t.Fatalf("anonymous request must not carry a user id")
	}
}

func TestOptionalAuthSeedsValidToken(t *testing.T) {
	cfg := authTestConfig()
	checker := &stubSessionChecker{live: map[string]bool{"access-9": true}}

	var captured context.Context
	handler := OptionalAuth(cfg, checker, nil)(recordContext(&captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, false, "access-9"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if UserIDFromContext(captured) == "" {
		t.Fatalf("expected user id in context")
	}
}

func TestRequireStaff(t *testing.T) {
	handler := RequireStaff(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithStaff(req.Context(), true))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
