package event

import (
	"time"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
	Version() int
}

const (
	WishlistProductAddedType   = "WishlistProductAdded"
	WishlistProductRemovedType = "WishlistProductRemoved"
	WishlistClearedType        = "WishlistCleared"
)

// WishlistProductAdded event
type WishlistProductAdded struct {
	CustomerID   string    `json:"customer_id"`
	ProductID    string    `json:"product_id"`
	ProductCount int       `json:"product_count"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *WishlistProductAdded) EventType() string     { return WishlistProductAddedType }
func (e *WishlistProductAdded) AggregateID() string   { return e.CustomerID }
func (e *WishlistProductAdded) OccurredAt() time.Time { return e.Timestamp }
func (e *WishlistProductAdded) Version() int          { return 1 }

// WishlistProductRemoved event
type WishlistProductRemoved struct {
	CustomerID   string    `json:"customer_id"`
	ProductID    string    `json:"product_id"`
	ProductCount int       `json:"product_count"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *WishlistProductRemoved) EventType() string     { return WishlistProductRemovedType }
func (e *WishlistProductRemoved) AggregateID() string   { return e.CustomerID }
func (e *WishlistProductRemoved) OccurredAt() time.Time { return e.Timestamp }
func (e *WishlistProductRemoved) Version() int          { return 1 }

// WishlistCleared is published once the customer's document has been deleted.
type WishlistCleared struct {
	CustomerID string    `json:"customer_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *WishlistCleared) EventType() string     { return WishlistClearedType }
func (e *WishlistCleared) AggregateID() string   { return e.CustomerID }
func (e *WishlistCleared) OccurredAt() time.Time { return e.Timestamp }
func (e *WishlistCleared) Version() int          { return 1 }
