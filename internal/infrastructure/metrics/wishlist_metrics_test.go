package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishlist-service/internal/domain/event"
)

func TestWishlistMetrics_CountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWishlistMetrics(reg)
	ctx := context.Background()

	require.NoError(t, m.Handle(ctx, &event.WishlistProductAdded{CustomerID: "c", ProductID: "a", ProductCount: 1}))
	require.NoError(t, m.Handle(ctx, &event.WishlistProductAdded{CustomerID: "c", ProductID: "b", ProductCount: 2}))
	require.NoError(t, m.Handle(ctx, &event.WishlistProductRemoved{CustomerID: "c", ProductID: "a", ProductCount: 1}))
	require.NoError(t, m.Handle(ctx, &event.WishlistCleared{CustomerID: "c"}))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.productsAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.productsRemoved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cleared))

	count, err := testutil.GatherAndCount(reg, "wishlist_size_products")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
