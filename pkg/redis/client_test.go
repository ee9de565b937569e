package redis

import (
	"testing"

	"github.com/bazarly/storefront-backend/pkg/config"
)

func TestCartKeyNamespacing(t *testing.T) {
	t.Parallel()

	if got := CartKey("cart", "", false); got != "bz:cart" {
		t.Fatalf("unexpected anonymous key: %s", got)
	}
	if got := CartKey("cart", "", true); got != "bz:cart:authenticated" {
		t.Fatalf("unexpected authenticated key: %s", got)
	}
	if got := CartKey("cart", "42", false); got != "bz:cart:user:42" {
		t.Fatalf("unexpected user key: %s", got)
	}
	// user id wins over the authenticated flag
	if got := CartKey("cart", "42", true); got != "bz:cart:user:42" {
		t.Fatalf("unexpected user key: %s", got)
	}
}

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}

func TestOptionsFromConfigPrefersURL(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{
		URL:     "redis://localhost:6379/2",
		Address: "ignored:6379",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr: %s", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db: %d", opts.DB)
	}
}

func TestOptionsFromConfigAddressFallback(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{
		Address:  "cache:6380",
		Password: "secret",
		DB:       1,
		PoolSize: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.Password != "secret" || opts.DB != 1 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.PoolSize != 5 {
		t.Fatalf("unexpected pool size: %d", opts.PoolSize)
	}
}
