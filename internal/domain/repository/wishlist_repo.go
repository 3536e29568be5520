package repository

import (
	"context"

	"wishlist-service/internal/domain/aggregate"
)

// WishlistRepository persists one wishlist per customer.
type WishlistRepository interface {
	// FindByCustomerID returns (nil, nil) when the customer has no wishlist.
	FindByCustomerID(ctx context.Context, customerID string) (*aggregate.Wishlist, error)
	// Save upserts by customer ID and returns the stored state.
	Save(ctx context.Context, wishlist *aggregate.Wishlist) (*aggregate.Wishlist, error)
	// DeleteByCustomerID is a no-op when nothing is stored.
	DeleteByCustomerID(ctx context.Context, customerID string) error
	ExistsByCustomerID(ctx context.Context, customerID string) (bool, error)
}
