package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/velomarket/velomarket-backend/pkg/config"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	redisclient "github.com/velomarket/velomarket-backend/pkg/redis"
)

type guestStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	GuestCartKey(token string) string
}

// GuestResolver maps anonymous session tokens to carts through Redis. Tokens
// are opaque to clients and slide their expiry on every use.
type GuestResolver struct {
	store guestStore
	carts Service
	ttl   time.Duration
}

// NewGuestResolver builds a resolver for anonymous cart sessions.
func NewGuestResolver(store guestStore, carts Service, shop config.ShopConfig) (*GuestResolver, error) {
	if store == nil {
		return nil, fmt.Errorf("guest store required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	ttl := shop.GuestCartTTL
	if ttl <= 0 {
		return nil, fmt.Errorf("guest cart ttl must be positive")
	}
	return &GuestResolver{store: store, carts: carts, ttl: ttl}, nil
}

// Resolve returns the cart for the provided session token, minting a fresh
// cart and token when the session is absent or expired.
func (r *GuestResolver) Resolve(ctx context.Context, token string) (cartID uuid.UUID, freshToken string, err error) {
	if token != "" {
		id, err := r.lookup(ctx, token)
		if err == nil {
			return id, token, nil
		}
		if !errors.Is(err, redisclient.Nil) {
			return uuid.Nil, "", err
		}
		// expired or unknown token, fall through to a fresh session
	}

	cart, err := r.carts.CreateAnonymous(ctx)
	if err != nil {
		return uuid.Nil, "", err
	}

	freshToken = uuid.NewString()
	key := r.store.GuestCartKey(freshToken)
	if err := r.store.Set(ctx, key, cart.ID.String(), r.ttl); err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store guest cart session")
	}
	return cart.ID, freshToken, nil
}

// Find returns the cart behind an existing session token without minting a
// fresh one. An absent or expired token yields uuid.Nil and no error.
func (r *GuestResolver) Find(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, nil
	}
	id, err := r.lookup(ctx, token)
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	return id, nil
}

// Forget drops the session mapping, typically after checkout.
func (r *GuestResolver) Forget(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := r.store.Del(ctx, r.store.GuestCartKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drop guest cart session")
	}
	return nil
}

func (r *GuestResolver) lookup(ctx context.Context, token string) (uuid.UUID, error) {
	key := r.store.GuestCartKey(token)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return uuid.Nil, err
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart session")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt guest cart session")
	}

	// slide the expiry
	if err := r.store.Set(ctx, key, raw, r.ttl); err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh guest cart session")
	}
	return id, nil
}
