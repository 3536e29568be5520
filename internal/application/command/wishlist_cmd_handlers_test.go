package command

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wishlist-service/internal/domain/aggregate"
	"wishlist-service/internal/domain/event"
	"wishlist-service/internal/infrastructure/bus"
	"wishlist-service/pkg/errors"
)

type mockWishlistRepository struct {
	mock.Mock
}

func (m *mockWishlistRepository) FindByCustomerID(ctx context.Context, customerID string) (*aggregate.Wishlist, error) {
	args := m.Called(ctx, customerID)
	w, _ := args.Get(0).(*aggregate.Wishlist)
	return w, args.Error(1)
}

func (m *mockWishlistRepository) Save(ctx context.Context, wishlist *aggregate.Wishlist) (*aggregate.Wishlist, error) {
	args := m.Called(ctx, wishlist)
	if fn, ok := args.Get(0).(func(context.Context, *aggregate.Wishlist) *aggregate.Wishlist); ok {
		return fn(ctx, wishlist), args.Error(1)
	}
	w, _ := args.Get(0).(*aggregate.Wishlist)
	return w, args.Error(1)
}

func (m *mockWishlistRepository) DeleteByCustomerID(ctx context.Context, customerID string) error {
	return m.Called(ctx, customerID).Error(0)
}

func (m *mockWishlistRepository) ExistsByCustomerID(ctx context.Context, customerID string) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

type recordingBus struct {
	*bus.InMemoryEventBus
	events []event.DomainEvent
}

func newRecordingBus(t *testing.T) *recordingBus {
	t.Helper()
	rb := &recordingBus{InMemoryEventBus: bus.NewInMemoryEventBus()}
	require.NoError(t, bus.SubscribeAll(rb, bus.EventHandlerFunc(func(ctx context.Context, evt event.DomainEvent) error {
		rb.events = append(rb.events, evt)
		return nil
	})))
	return rb
}

func storedWishlist(customerID string, productIDs ...string) *aggregate.Wishlist {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products := make([]aggregate.WishlistProduct, 0, len(productIDs))
	for i, pid := range productIDs {
		products = append(products, aggregate.NewWishlistProduct(pid, at.Add(time.Duration(i)*time.Second)))
	}
	return aggregate.RestoreWishlist("65f000000000000000000001", customerID, products, at, at.Add(time.Hour))
}

func saveReturnsInput(repo *mockWishlistRepository) {
	repo.On("Save", mock.Anything, mock.AnythingOfType("*aggregate.Wishlist")).
		Return(func(ctx context.Context, w *aggregate.Wishlist) *aggregate.Wishlist { return w }, nil)
}

func TestAddProductHandler_NewWishlist(t *testing.T) {
	repo := new(mockWishlistRepository)
	eventBus := newRecordingBus(t)
	repo.On("FindByCustomerID", mock.Anything, "cust-001").Return(nil, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(w *aggregate.Wishlist) bool {
		return w.CustomerID() == "cust-001" && w.HasProduct("prod-001") && w.ProductCount() == 1
	})).Return(storedWishlist("cust-001", "prod-001"), nil)

	handler := NewAddProductHandler(repo, eventBus)
	resp, err := handler.Handle(context.Background(), &AddProduct{CustomerID: "cust-001", ProductID: "prod-001"})

	require.NoError(t, err)
	assert.Equal(t, "cust-001", resp.CustomerID)
	assert.Equal(t, "prod-001", resp.ProductID)
	assert.Contains(t, resp.Message, "successfully")
	assert.False(t, resp.AddedAt.Time().IsZero())

	require.Len(t, eventBus.events, 1)
	assert.Equal(t, event.WishlistProductAddedType, eventBus.events[0].EventType())
	repo.AssertExpectations(t)
}

func TestAddProductHandler_DomainErrors(t *testing.T) {
	full := make([]string, 0, aggregate.MaxWishlistProducts)
	for i := 1; i <= aggregate.MaxWishlistProducts; i++ {
		full = append(full, fmt.Sprintf("prod-%03d", i))
	}

	tests := []struct {
		name     string
		stored   *aggregate.Wishlist
		product  string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "duplicate",
			stored:   storedWishlist("cust-001", "prod-001"),
			product:  "prod-001",
			wantCode: errors.CodeProductAlreadyExists,
			wantMsg:  "Product already exists in wishlist",
		},
		{
			name:     "cap reached",
			stored:   storedWishlist("cust-001", full...),
			product:  "prod-021",
			wantCode: errors.CodeWishlistLimit,
			wantMsg:  "Wishlist cannot exceed 20 products",
		},
		{
			name:     "cap checked before duplicate",
			stored:   storedWishlist("cust-001", full...),
			product:  "prod-001",
			wantCode: errors.CodeWishlistLimit,
			wantMsg:  "Wishlist cannot exceed 20 products",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockWishlistRepository)
			eventBus := newRecordingBus(t)
			repo.On("FindByCustomerID", mock.Anything, "cust-001").Return(tt.stored, nil)

			_, err := NewAddProductHandler(repo, eventBus).
				Handle(context.Background(), &AddProduct{CustomerID: "cust-001", ProductID: tt.product})

			appErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
			assert.Empty(t, eventBus.events)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestAddProductHandler_InvalidIDsSkipIO(t *testing.T) {
	repo := new(mockWishlistRepository)
	handler := NewAddProductHandler(repo, newRecordingBus(t))

	_, err := handler.Handle(context.Background(), &AddProduct{CustomerID: "  ", ProductID: "prod-001"})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidCustomerID))

	_, err = handler.Handle(context.Background(), &AddProduct{CustomerID: "cust-001", ProductID: ""})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidProductID))

	repo.AssertNotCalled(t, "FindByCustomerID", mock.Anything, mock.Anything)
}

func TestAddProductHandler_StoreFailures(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		repo := new(mockWishlistRepository)
		repo.On("FindByCustomerID", mock.Anything, "cust-001").Return(nil, fmt.Errorf("no reachable servers"))

		_, err := NewAddProductHandler(repo, newRecordingBus(t)).
			Handle(context.Background(), &AddProduct{CustomerID: "cust-001", ProductID: "prod-001"})
		assert.True(t, errors.HasCode(err, errors.CodeInternal))
	})

	t.Run("save", func(t *testing.T) {
		repo := new(mockWishlistRepository)
		eventBus := newRecordingBus(t)
		repo.On("FindByCustomerID", mock.Anything, "cust-001").Return(nil, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("write concern error"))

		_, err := NewAddProductHandler(repo, eventBus).
			Handle(context.Background(), &AddProduct{CustomerID: "cust-001", ProductID: "prod-001"})
		assert.True(t, errors.HasCode(err, errors.CodeInternal))
		assert.Empty(t, eventBus.events)
	})
}

func TestRemoveProductHandler(t *testing.T) {
	t.Run("removes and saves", func(t *testing.T) {
		repo := new(mockWishlistRepository)
		eventBus := newRecordingBus(t)
		repo.On("FindByCustomerID", mock.Anything, "cust-001").Return(storedWishlist("cust-001", "prod-001", "prod-002"), nil)
		saveReturnsInput(repo)

		err := NewRemoveProductHandler(repo, eventBus).
			Handle(context.Background(), &RemoveProduct{CustomerID: "cust-001", ProductID: "prod-001"})

		require.NoError(t, err)
		repo.AssertCalled(t, "Save", mock.Anything, mock.MatchedBy(func(w *aggregate.Wishlist) bool {
			return !w.HasProduct("prod-001") && w.HasProduct("prod-002")
		}))
		require.Len(t, eventBus.events, 1)
		assert.Equal(t, event.WishlistProductRemovedType, eventBus.events[0].EventType())
	})

	t.Run("customer not found", func(t *testing.T) {
		repo := new(mockWishlistRepository)
		repo.On("FindByCustomerID", mock.Anything, "cust-404").Return(nil, nil)

		err := NewRemoveProductHandler(repo, newRecordingBus(t)).
			Handle(context.Background(), &RemoveProduct{CustomerID: "cust-404", ProductID: "prod-001"})

		appErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeCustomerNotFound, appErr.Code)
		assert.Equal(t, "Customer not found", appErr.Message)
	})

	t.Run("product not found", func(t *testing.T) {
		repo := new(mockWishlistRepository)
		repo.On("FindByCustomerID", mock.Anything, "cust-001").Return(storedWishlist("cust-001", "prod-001"), nil)

		err := NewRemoveProductHandler(repo, newRecordingBus(t)).
			Handle(context.Background(), &RemoveProduct{CustomerID: "cust-001", ProductID: "missing"})

		assert.True(t, errors.HasCode(err, errors.CodeProductNotFound))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestClearWishlistHandler(t *testing.T) {
	t.Run("deletes and publishes", func(t *testing.T) {
		repo := new(mockWishlistRepository)
		eventBus := newRecordingBus(t)
		repo.On("ExistsByCustomerID", mock.Anything, "cust-001").Return(true, nil)
		repo.On("DeleteByCustomerID", mock.Anything, "cust-001").Return(nil)

		err := NewClearWishlistHandler(repo, eventBus).
			Handle(context.Background(), &ClearWishlist{CustomerID: "cust-001"})

		require.NoError(t, err)
		require.Len(t, eventBus.events, 1)
		assert.Equal(t, event.WishlistClearedType, eventBus.events[0].EventType())
		assert.Equal(t, "cust-001", eventBus.events[0].AggregateID())
		repo.AssertExpectations(t)
	})

	t.Run("customer not found", func(t *testing.T) {
		repo := new(mockWishlistRepository)
		repo.On("ExistsByCustomerID", mock.Anything, "cust-404").Return(false, nil)

		err := NewClearWishlistHandler(repo, newRecordingBus(t)).
			Handle(context.Background(), &ClearWishlist{CustomerID: "cust-404"})

		assert.True(t, errors.HasCode(err, errors.CodeCustomerNotFound))
		repo.AssertNotCalled(t, "DeleteByCustomerID", mock.Anything, mock.Anything)
	})

	t.Run("delete failure", func(t *testing.T) {
		repo := new(mockWishlistRepository)
		eventBus := newRecordingBus(t)
		repo.On("ExistsByCustomerID", mock.Anything, "cust-001").Return(true, nil)
		repo.On("DeleteByCustomerID", mock.Anything, "cust-001").Return(fmt.Errorf("timeout"))

		err := NewClearWishlistHandler(repo, eventBus).
			Handle(context.Background(), &ClearWishlist{CustomerID: "cust-001"})

		assert.True(t, errors.HasCode(err, errors.CodeInternal))
		assert.Empty(t, eventBus.events)
	})
}

func TestPublishFailureDoesNotFailCommand(t *testing.T) {
	repo := new(mockWishlistRepository)
	eventBus := bus.NewInMemoryEventBus()
	require.NoError(t, eventBus.Subscribe(event.WishlistProductAddedType, bus.EventHandlerFunc(
		func(ctx context.Context, evt event.DomainEvent) error { return fmt.Errorf("broker down") },
	)))
	repo.On("FindByCustomerID", mock.Anything, "cust-001").Return(nil, nil)
	saveReturnsInput(repo)

	_, err := NewAddProductHandler(repo, eventBus).
		Handle(context.Background(), &AddProduct{CustomerID: "cust-001", ProductID: "prod-001"})
	assert.NoError(t, err)
}
