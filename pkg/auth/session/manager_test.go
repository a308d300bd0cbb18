package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type stubStore struct {
	values map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]string{}}
}

func (s *stubStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.values[key] = value.(string)
	return nil
}

func (s *stubStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (s *stubStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

type stubKeyer struct{}

func (stubKeyer) AccessSessionKey(accessID string) string {
	return "velo:session:" + accessID
}

func newTestManager(store *stubStore) *Manager {
	return &Manager{store: store, keyer: stubKeyer{}, ttl: time.Hour}
}

func TestGenerateStoresToken(t *testing.T) {
	store := newStubStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if store.values["velo:session:access-1"] != token {
		t.Fatalf("expected token stored under session key")
	}
}

func TestRotateIsSingleUse(t *testing.T) {
	store := newStubStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	newAccessID, newToken, err := mgr.Rotate(context.Background(), "access-1", token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if newAccessID == "access-1" || newToken == token {
		t.Fatalf("expected a fresh session after rotation")
	}
	if _, ok := store.values["velo:session:access-1"]; ok {
		t.Fatalf("expected old session removed")
	}

	// the consumed token no longer rotates
	if _, _, err := mgr.Rotate(context.Background(), "access-1", token); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRotateRejectsMismatchedToken(t *testing.T) {
	store := newStubStore()
	mgr := newTestManager(store)

	if _, err := mgr.Generate(context.Background(), "access-1"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := mgr.Rotate(context.Background(), "access-1", "forged"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestHasSessionAfterRevoke(t *testing.T) {
	store := newStubStore()
	mgr := newTestManager(store)

	if _, err := mgr.Generate(context.Background(), "access-1"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	ok, err := mgr.HasSession(context.Background(), "access-1")
	if err != nil || !ok {
		t.Fatalf("expected live session, got ok=%v err=%v", ok, err)
	}

	if err := mgr.Revoke(context.Background(), "access-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	ok, err = mgr.HasSession(context.Background(), "access-1")
	if err != nil || ok {
		t.Fatalf("expected session gone, got ok=%v err=%v", ok, err)
	}
}
