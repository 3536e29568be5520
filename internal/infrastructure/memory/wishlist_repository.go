package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"wishlist-service/internal/domain/aggregate"
)

type storedWishlist struct {
	id        string
	products  []aggregate.WishlistProduct
	createdAt time.Time
	updatedAt time.Time
}

// WishlistRepository keeps wishlists in process memory. It backs the
// "memory" storage driver and the HTTP tests.
type WishlistRepository struct {
	mu    sync.RWMutex
	items map[string]storedWishlist
	now   func() time.Time
}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{
		items: make(map[string]storedWishlist),
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
}

func (r *WishlistRepository) FindByCustomerID(ctx context.Context, customerID string) (*aggregate.Wishlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.items[customerID]
	if !ok {
		return nil, nil
	}
	return stored.toAggregate(customerID), nil
}

func (r *WishlistRepository) Save(ctx context.Context, wishlist *aggregate.Wishlist) (*aggregate.Wishlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	updatedAt := r.now()
	if !updatedAt.After(wishlist.UpdatedAt()) {
		updatedAt = wishlist.UpdatedAt()
	}

	stored, ok := r.items[wishlist.CustomerID()]
	if !ok {
		stored = storedWishlist{
			id:        primitive.NewObjectID().Hex(),
			createdAt: wishlist.CreatedAt(),
		}
	}
	stored.products = wishlist.Products()
	stored.updatedAt = updatedAt
	r.items[wishlist.CustomerID()] = stored

	return stored.toAggregate(wishlist.CustomerID()), nil
}

func (r *WishlistRepository) DeleteByCustomerID(ctx context.Context, customerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, customerID)
	return nil
}

func (r *WishlistRepository) ExistsByCustomerID(ctx context.Context, customerID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[customerID]
	return ok, nil
}

// Len reports how many wishlists are stored.
func (r *WishlistRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (s storedWishlist) toAggregate(customerID string) *aggregate.Wishlist {
	return aggregate.RestoreWishlist(s.id, customerID, s.products, s.createdAt, s.updatedAt)
}
