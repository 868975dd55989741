package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, StorageMemory, cfg.Storage.Backend)
	require.Equal(t, OrdersMemory, cfg.Orders.Backend)
	require.Equal(t, CatalogFile, cfg.Catalog.Source)
	require.Equal(t, "clamp", cfg.Cart.ZeroQuantityPolicy)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.False(t, cfg.NeedsDatabase())
}

func TestLoadNestedKeys(t *testing.T) {
	t.Setenv("STOREFRONT_STORAGE_BACKEND", "Redis")
	t.Setenv("STOREFRONT_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STOREFRONT_CART_ZERO_QUANTITY_POLICY", "DELETE")
	t.Setenv("STOREFRONT_ORDERS_BACKEND", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StorageRedis, cfg.Storage.Backend)
	require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	require.Equal(t, "delete", cfg.Cart.ZeroQuantityPolicy)
	require.True(t, cfg.NeedsDatabase())
}

func TestLoadRejectsRedisWithoutAddress(t *testing.T) {
	t.Setenv("STOREFRONT_STORAGE_BACKEND", "redis")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsFirestoreWithoutProject(t *testing.T) {
	t.Setenv("STOREFRONT_ORDERS_BACKEND", "firestore")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("STOREFRONT_CART_ZERO_QUANTITY_POLICY", "ignore")
	_, err := Load()
	require.Error(t, err)
}
