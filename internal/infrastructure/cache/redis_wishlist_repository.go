package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wishlist-service/internal/domain/aggregate"
	"wishlist-service/internal/domain/repository"
	"wishlist-service/pkg/logger"
)

const keyPrefix = "wishlist:"

// tombstone marks a deleted wishlist so a read that raced the delete cannot
// re-populate the key with the old document.
const tombstone = "-"

type cachedProduct struct {
	ProductID string    `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}

type cachedWishlist struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Products   []cachedProduct `json:"products"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// WishlistRepository is a read-through Redis cache in front of another
// WishlistRepository. Writes go to the inner store first and then overwrite
// the key with the stored state (or a tombstone on delete); read misses only
// fill an empty key, so they never replace what a write put there. Redis
// failures are logged and never fail the request.
type WishlistRepository struct {
	inner  repository.WishlistRepository
	client redis.UniversalClient
	ttl    time.Duration
}

func NewWishlistRepository(inner repository.WishlistRepository, client redis.UniversalClient, ttl time.Duration) *WishlistRepository {
	return &WishlistRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

func key(customerID string) string {
	return keyPrefix + customerID
}

func (r *WishlistRepository) FindByCustomerID(ctx context.Context, customerID string) (*aggregate.Wishlist, error) {
	data, err := r.client.Get(ctx, key(customerID)).Bytes()
	switch {
	case err == nil && string(data) == tombstone:
		return r.inner.FindByCustomerID(ctx, customerID)
	case err == nil:
		var cached cachedWishlist
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached.toAggregate(), nil
		}
		logger.Warn(ctx).Str("customer_id", customerID).Msg("discarding undecodable wishlist cache entry")
		r.evict(ctx, customerID)
	case !errors.Is(err, redis.Nil):
		logger.Warn(ctx).Err(err).Str("customer_id", customerID).Msg("wishlist cache read failed")
	}

	wishlist, err := r.inner.FindByCustomerID(ctx, customerID)
	if err != nil || wishlist == nil {
		return wishlist, err
	}

	r.fill(ctx, wishlist)
	return wishlist, nil
}

func (r *WishlistRepository) Save(ctx context.Context, wishlist *aggregate.Wishlist) (*aggregate.Wishlist, error) {
	saved, err := r.inner.Save(ctx, wishlist)
	if err != nil {
		return nil, err
	}
	r.store(ctx, saved)
	return saved, nil
}

func (r *WishlistRepository) DeleteByCustomerID(ctx context.Context, customerID string) error {
	if err := r.inner.DeleteByCustomerID(ctx, customerID); err != nil {
		return err
	}
	r.bury(ctx, customerID)
	return nil
}

func (r *WishlistRepository) ExistsByCustomerID(ctx context.Context, customerID string) (bool, error) {
	data, err := r.client.Get(ctx, key(customerID)).Result()
	switch {
	case err == nil && data != tombstone:
		return true, nil
	case err != nil && !errors.Is(err, redis.Nil):
		logger.Warn(ctx).Err(err).Str("customer_id", customerID).Msg("wishlist cache exists failed")
	}
	return r.inner.ExistsByCustomerID(ctx, customerID)
}

// Ping is used as the readiness check for the cache.
func (r *WishlistRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func encode(ctx context.Context, wishlist *aggregate.Wishlist) ([]byte, bool) {
	data, err := json.Marshal(fromAggregate(wishlist))
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("wishlist cache encode failed")
		return nil, false
	}
	return data, true
}

// store overwrites the key with state just written to the inner store.
func (r *WishlistRepository) store(ctx context.Context, wishlist *aggregate.Wishlist) {
	data, ok := encode(ctx, wishlist)
	if !ok {
		r.evict(ctx, wishlist.CustomerID())
		return
	}
	if err := r.client.Set(ctx, key(wishlist.CustomerID()), data, r.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("customer_id", wishlist.CustomerID()).Msg("wishlist cache write failed")
		r.evict(ctx, wishlist.CustomerID())
	}
}

// fill caches state read from the inner store unless a write got there first.
func (r *WishlistRepository) fill(ctx context.Context, wishlist *aggregate.Wishlist) {
	data, ok := encode(ctx, wishlist)
	if !ok {
		return
	}
	if err := r.client.SetNX(ctx, key(wishlist.CustomerID()), data, r.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("customer_id", wishlist.CustomerID()).Msg("wishlist cache fill failed")
	}
}

// bury replaces the key with a tombstone after a delete.
func (r *WishlistRepository) bury(ctx context.Context, customerID string) {
	if err := r.client.Set(ctx, key(customerID), tombstone, r.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("customer_id", customerID).Msg("wishlist cache tombstone failed")
		r.evict(ctx, customerID)
	}
}

func (r *WishlistRepository) evict(ctx context.Context, customerID string) {
	if err := r.client.Del(ctx, key(customerID)).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("customer_id", customerID).Msg("wishlist cache evict failed")
	}
}

func fromAggregate(w *aggregate.Wishlist) cachedWishlist {
	products := make([]cachedProduct, 0, w.ProductCount())
	for _, p := range w.Products() {
		products = append(products, cachedProduct{ProductID: p.ProductID(), AddedAt: p.AddedAt()})
	}
	return cachedWishlist{
		ID:         w.ID(),
		CustomerID: w.CustomerID(),
		Products:   products,
		CreatedAt:  w.CreatedAt(),
		UpdatedAt:  w.UpdatedAt(),
	}
}

func (c cachedWishlist) toAggregate() *aggregate.Wishlist {
	products := make([]aggregate.WishlistProduct, 0, len(c.Products))
	for _, p := range c.Products {
		products = append(products, aggregate.NewWishlistProduct(p.ProductID, p.AddedAt))
	}
	return aggregate.RestoreWishlist(c.ID, c.CustomerID, products, c.CreatedAt, c.UpdatedAt)
}
