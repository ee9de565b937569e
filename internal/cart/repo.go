package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bazarly/storefront-backend/pkg/auth"
	"github.com/bazarly/storefront-backend/pkg/config"
	pkgerrors "github.com/bazarly/storefront-backend/pkg/errors"
	"github.com/bazarly/storefront-backend/pkg/redis"
)

// KV is the key-value surface the persistence adapter needs; pkg/redis
// satisfies it.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// persistedCart is the stored blob shape. Only items are persisted; totals
// are derived again on load so a hand-edited or stale blob can never carry
// totals that disagree with its items.
type persistedCart struct {
	Items []LineItem `json:"items"`
}

// Repository maps cart state to identity-namespaced key-value blobs.
type Repository struct {
	kv   KV
	base string
	ttl  time.Duration
}

// NewRepository builds the persistence adapter.
func NewRepository(kv KV, cfg config.CartConfig) (*Repository, error) {
	if kv == nil {
		return nil, errors.New("kv store is required")
	}
	base := strings.TrimSpace(cfg.StorageKey)
	if base == "" {
		return nil, errors.New("cart storage key is required")
	}
	return &Repository{kv: kv, base: base, ttl: cfg.TTL}, nil
}

// Key resolves the storage key for an identity. Distinct identities address
// distinct blobs; completing a login therefore switches carts rather than
// merging the guest cart into the user one.
func (r *Repository) Key(id auth.Identity) string {
	return redis.CartKey(r.base, id.UserID, id.Authenticated)
}

// Load reads the cart blob for the identity. A missing key or malformed blob
// yields the empty cart; only transport failures surface as errors, and even
// then the empty cart is returned so callers can keep serving.
func (r *Repository) Load(ctx context.Context, id auth.Identity) (State, error) {
	raw, err := r.kv.Get(ctx, r.Key(id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Empty(), nil
		}
		return Empty(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var blob persistedCart
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return Empty(), nil
	}

	return recomputeTotals(State{Items: blob.Items}), nil
}

// Save serializes the items and writes them under the resolved key.
func (r *Repository) Save(ctx context.Context, id auth.Identity, s State) error {
	payload, err := json.Marshal(persistedCart{Items: s.Items})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := r.kv.Set(ctx, r.Key(id), string(payload), r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// Clear deletes the blob under the resolved key.
func (r *Repository) Clear(ctx context.Context, id auth.Identity) error {
	if err := r.kv.Del(ctx, r.Key(id)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
