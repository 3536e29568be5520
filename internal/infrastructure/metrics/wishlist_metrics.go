package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wishlist-service/internal/domain/event"
)

// WishlistMetrics counts wishlist domain events. It is subscribed to the event bus.
type WishlistMetrics struct {
	productsAdded   prometheus.Counter
	productsRemoved prometheus.Counter
	cleared         prometheus.Counter
	wishlistSize    prometheus.Histogram
}

func NewWishlistMetrics(reg prometheus.Registerer) *WishlistMetrics {
	factory := promauto.With(reg)
	return &WishlistMetrics{
		productsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "wishlist_products_added_total",
			Help: "Products added to wishlists",
		}),
		productsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "wishlist_products_removed_total",
			Help: "Products removed from wishlists",
		}),
		cleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "wishlist_cleared_total",
			Help: "Wishlists cleared",
		}),
		wishlistSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wishlist_size_products",
			Help:    "Wishlist size after each add or remove",
			Buckets: prometheus.LinearBuckets(0, 5, 5),
		}),
	}
}

func (m *WishlistMetrics) Handle(ctx context.Context, evt event.DomainEvent) error {
	switch e := evt.(type) {
	case *event.WishlistProductAdded:
		m.productsAdded.Inc()
		m.wishlistSize.Observe(float64(e.ProductCount))
	case *event.WishlistProductRemoved:
		m.productsRemoved.Inc()
		m.wishlistSize.Observe(float64(e.ProductCount))
	case *event.WishlistCleared:
		m.cleared.Inc()
	}
	return nil
}
