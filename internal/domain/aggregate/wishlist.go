package aggregate

import (
	"errors"
	"slices"
	"strings"
	"time"

	"wishlist-service/internal/domain/event"
)

// MaxWishlistProducts is the hard cap on products per wishlist.
const MaxWishlistProducts = 20

var (
	ErrWishlistFull         = errors.New("wishlist cannot exceed 20 products")
	ErrProductAlreadyExists = errors.New("product already exists in wishlist")
	ErrEmptyCustomerID      = errors.New("customerID cannot be empty")
)

// now returns the current instant at the resolution the store keeps.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// WishlistProduct is one entry of a wishlist. Identity is the product ID.
type WishlistProduct struct {
	productID string
	addedAt   time.Time
}

func NewWishlistProduct(productID string, addedAt time.Time) WishlistProduct {
	return WishlistProduct{productID: productID, addedAt: addedAt.UTC()}
}

func (p WishlistProduct) ProductID() string  { return p.productID }
func (p WishlistProduct) AddedAt() time.Time { return p.addedAt }

type Wishlist struct {
	id         string
	customerID string
	products   []WishlistProduct
	createdAt  time.Time
	updatedAt  time.Time

	uncommittedEvents []event.DomainEvent
}

// NewWishlist creates an empty, unsaved wishlist for customerID.
func NewWishlist(customerID string) (*Wishlist, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrEmptyCustomerID
	}

	ts := now()
	return &Wishlist{
		customerID: customerID,
		products:   []WishlistProduct{},
		createdAt:  ts,
		updatedAt:  ts,
	}, nil
}

// RestoreWishlist rebuilds a wishlist from persisted state without raising events.
func RestoreWishlist(id, customerID string, products []WishlistProduct, createdAt, updatedAt time.Time) *Wishlist {
	restored := make([]WishlistProduct, len(products))
	copy(restored, products)

	return &Wishlist{
		id:         id,
		customerID: customerID,
		products:   restored,
		createdAt:  createdAt.UTC(),
		updatedAt:  updatedAt.UTC(),
	}
}

func (w *Wishlist) HasProduct(productID string) bool {
	return w.indexOf(productID) >= 0
}

func (w *Wishlist) ProductCount() int {
	return len(w.products)
}

func (w *Wishlist) CannotAddProduct() bool {
	return len(w.products) >= MaxWishlistProducts
}

// AddProduct appends productID. The cap is checked before the duplicate check.
func (w *Wishlist) AddProduct(productID string) error {
	if w.CannotAddProduct() {
		return ErrWishlistFull
	}
	if w.HasProduct(productID) {
		return ErrProductAlreadyExists
	}

	w.touch()
	w.products = append(w.products, WishlistProduct{productID: productID, addedAt: w.updatedAt})

	w.raiseEvent(&event.WishlistProductAdded{
		CustomerID:   w.customerID,
		ProductID:    productID,
		ProductCount: len(w.products),
		Timestamp:    w.updatedAt,
	})
	return nil
}

// RemoveProduct reports whether productID was present and removed.
func (w *Wishlist) RemoveProduct(productID string) bool {
	idx := w.indexOf(productID)
	if idx < 0 {
		return false
	}

	w.products = slices.Delete(w.products, idx, idx+1)
	w.touch()

	w.raiseEvent(&event.WishlistProductRemoved{
		CustomerID:   w.customerID,
		ProductID:    productID,
		ProductCount: len(w.products),
		Timestamp:    w.updatedAt,
	})
	return true
}

func (w *Wishlist) FindProduct(productID string) (WishlistProduct, bool) {
	idx := w.indexOf(productID)
	if idx < 0 {
		return WishlistProduct{}, false
	}
	return w.products[idx], true
}

func (w *Wishlist) indexOf(productID string) int {
	return slices.IndexFunc(w.products, func(p WishlistProduct) bool {
		return p.productID == productID
	})
}

// touch advances updatedAt, bumping by a millisecond when the clock has not moved.
func (w *Wishlist) touch() {
	ts := now()
	if !ts.After(w.updatedAt) {
		ts = w.updatedAt.Add(time.Millisecond)
	}
	w.updatedAt = ts
}

// Getters
func (w *Wishlist) ID() string           { return w.id }
func (w *Wishlist) CustomerID() string   { return w.customerID }
func (w *Wishlist) CreatedAt() time.Time { return w.createdAt }
func (w *Wishlist) UpdatedAt() time.Time { return w.updatedAt }
func (w *Wishlist) IsNew() bool          { return w.id == "" }

// Products returns a copy in insertion order.
func (w *Wishlist) Products() []WishlistProduct {
	out := make([]WishlistProduct, len(w.products))
	copy(out, w.products)
	return out
}

// Event handling
func (w *Wishlist) GetUncommittedEvents() []event.DomainEvent {
	return w.uncommittedEvents
}

func (w *Wishlist) MarkEventsAsCommitted() {
	w.uncommittedEvents = nil
}

func (w *Wishlist) raiseEvent(e event.DomainEvent) {
	w.uncommittedEvents = append(w.uncommittedEvents, e)
}
