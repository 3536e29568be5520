package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishlist-service/internal/domain/aggregate"
	"wishlist-service/internal/infrastructure/memory"
)

func setupTestRedis(t *testing.T) (*WishlistRepository, *memory.WishlistRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := memory.NewWishlistRepository()
	return NewWishlistRepository(inner, client, 10*time.Minute), inner, mr
}

func seed(t *testing.T, repo *memory.WishlistRepository, customerID string, productIDs ...string) {
	t.Helper()
	w, err := aggregate.NewWishlist(customerID)
	require.NoError(t, err)
	for _, pid := range productIDs {
		require.NoError(t, w.AddProduct(pid))
	}
	_, err = repo.Save(context.Background(), w)
	require.NoError(t, err)
}

func TestFindByCustomerID_PopulatesCacheOnMiss(t *testing.T) {
	repo, inner, mr := setupTestRedis(t)
	seed(t, inner, "cust-001", "prod-a", "prod-b")

	got, err := repo.FindByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.ProductCount())

	assert.True(t, mr.Exists("wishlist:cust-001"))
	assert.Equal(t, 10*time.Minute, mr.TTL("wishlist:cust-001"))
}

func TestFindByCustomerID_ServesFromCache(t *testing.T) {
	repo, inner, _ := setupTestRedis(t)
	seed(t, inner, "cust-001", "prod-a")

	first, err := repo.FindByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)

	// Bypass the decorator so only the cache still has the old state.
	require.NoError(t, inner.DeleteByCustomerID(context.Background(), "cust-001"))

	cached, err := repo.FindByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, first.ID(), cached.ID())
	assert.True(t, cached.HasProduct("prod-a"))
	assert.True(t, cached.CreatedAt().Equal(first.CreatedAt()))
}

func TestFindByCustomerID_AbsentIsNotCached(t *testing.T) {
	repo, _, mr := setupTestRedis(t)

	got, err := repo.FindByCustomerID(context.Background(), "cust-404")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("wishlist:cust-404"))
}

func TestSave_WritesStoredStateThrough(t *testing.T) {
	repo, inner, mr := setupTestRedis(t)
	seed(t, inner, "cust-001", "prod-a")

	w, err := repo.FindByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)
	require.True(t, mr.Exists("wishlist:cust-001"))

	require.NoError(t, w.AddProduct("prod-b"))
	saved, err := repo.Save(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, mr.TTL("wishlist:cust-001"))

	// Served from the cache even if the store loses the document.
	require.NoError(t, inner.DeleteByCustomerID(context.Background(), "cust-001"))
	reloaded, err := repo.FindByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, 2, reloaded.ProductCount())
	assert.Equal(t, saved.ID(), reloaded.ID())
}

func TestDeleteByCustomerID_LeavesTombstone(t *testing.T) {
	repo, inner, mr := setupTestRedis(t)
	seed(t, inner, "cust-001", "prod-a")

	_, err := repo.FindByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByCustomerID(context.Background(), "cust-001"))
	got, err := mr.Get("wishlist:cust-001")
	require.NoError(t, err)
	assert.Equal(t, tombstone, got)

	exists, err := repo.ExistsByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)
	assert.False(t, exists)

	w, err := repo.FindByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestStaleFill_DoesNotOverwriteNewerWrite(t *testing.T) {
	ctx := context.Background()
	repo, inner, _ := setupTestRedis(t)
	seed(t, inner, "cust-001", "prod-a")

	// A reader loads the old state, then a write lands before it fills the cache.
	stale, err := inner.FindByCustomerID(ctx, "cust-001")
	require.NoError(t, err)

	fresh, err := inner.FindByCustomerID(ctx, "cust-001")
	require.NoError(t, err)
	require.NoError(t, fresh.AddProduct("prod-b"))
	_, err = repo.Save(ctx, fresh)
	require.NoError(t, err)

	repo.fill(ctx, stale)

	got, err := repo.FindByCustomerID(ctx, "cust-001")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ProductCount())
}

func TestStaleFill_DoesNotResurrectDeletedWishlist(t *testing.T) {
	ctx := context.Background()
	repo, inner, _ := setupTestRedis(t)
	seed(t, inner, "cust-001", "prod-a")

	stale, err := inner.FindByCustomerID(ctx, "cust-001")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByCustomerID(ctx, "cust-001"))
	repo.fill(ctx, stale)

	got, err := repo.FindByCustomerID(ctx, "cust-001")
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err := repo.ExistsByCustomerID(ctx, "cust-001")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSave_AfterDeleteReplacesTombstone(t *testing.T) {
	ctx := context.Background()
	repo, inner, _ := setupTestRedis(t)
	seed(t, inner, "cust-001", "prod-a")
	require.NoError(t, repo.DeleteByCustomerID(ctx, "cust-001"))

	w, err := aggregate.NewWishlist("cust-001")
	require.NoError(t, err)
	require.NoError(t, w.AddProduct("prod-z"))
	_, err = repo.Save(ctx, w)
	require.NoError(t, err)

	got, err := repo.FindByCustomerID(ctx, "cust-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.HasProduct("prod-z"))
}

func TestExistsByCustomerID_CacheHitAndFallthrough(t *testing.T) {
	repo, inner, mr := setupTestRedis(t)
	seed(t, inner, "cust-001")

	exists, err := repo.ExistsByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, mr.Set("wishlist:cust-002", `{"customerId":"cust-002"}`))
	exists, err = repo.ExistsByCustomerID(context.Background(), "cust-002")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisDown_FallsThroughToStore(t *testing.T) {
	repo, inner, mr := setupTestRedis(t)
	seed(t, inner, "cust-001", "prod-a")
	mr.Close()

	got, err := repo.FindByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.HasProduct("prod-a"))

	exists, err := repo.ExistsByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Error(t, repo.Ping(context.Background()))
}

func TestFindByCustomerID_CorruptEntryIsIgnored(t *testing.T) {
	repo, inner, mr := setupTestRedis(t)
	seed(t, inner, "cust-001", "prod-a")
	require.NoError(t, mr.Set("wishlist:cust-001", "not-json"))

	got, err := repo.FindByCustomerID(context.Background(), "cust-001")
	require.NoError(t, err)
	assert.True(t, got.HasProduct("prod-a"))

	// The read replaced the corrupt entry.
	raw, err := mr.Get("wishlist:cust-001")
	require.NoError(t, err)
	assert.Contains(t, raw, "prod-a")
}
